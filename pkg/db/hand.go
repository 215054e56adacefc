package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"cardroom-server/pkg/poker/dealer"
	"cardroom-server/pkg/poker/holdem"
)

// HandRow is a stored hand
type HandRow struct {
	ID       string
	RoomCode string
	Options  holdem.Options
	Created  time.Time
}

// SaveHand persists a finished hand and its event log in a single
// transaction. Events keep their emit order through the seq column.
func SaveHand(ctx context.Context, roomCode string, hand *holdem.Hand) error {
	optionsJSON, err := json.Marshal(hand.Options())
	if err != nil {
		return err
	}

	tx, err := Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const insertHand = `
INSERT INTO hands (id, room_code, options, created)
VALUES ($1, $2, $3, (NOW() AT TIME ZONE 'utc'))`

	if _, err := tx.ExecContext(ctx, insertHand, hand.ID(), roomCode, optionsJSON); err != nil {
		_ = tx.Rollback()
		return err
	}

	const insertEvent = `
INSERT INTO hand_events (hand_id, seq, payload)
VALUES ($1, $2, $3)`

	for seq, ev := range hand.Events() {
		payload, err := dealer.MarshalEvent(ev)
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		if _, err := tx.ExecContext(ctx, insertEvent, hand.ID(), seq, payload); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetHand returns a stored hand by its ID, or nil if not found
func GetHand(ctx context.Context, id string) (*HandRow, error) {
	const query = `
SELECT id, room_code, options, created
FROM hands
WHERE id = $1`

	row := Instance().QueryRowContext(ctx, query, id)

	var hand HandRow
	var optionsJSON []byte
	if err := row.Scan(&hand.ID, &hand.RoomCode, &optionsJSON, &hand.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if err := json.Unmarshal(optionsJSON, &hand.Options); err != nil {
		return nil, err
	}

	return &hand, nil
}

// GetHandEvents returns a hand's event log in emit order
func GetHandEvents(ctx context.Context, handID string) ([]dealer.Event, error) {
	const query = `
SELECT payload
FROM hand_events
WHERE hand_id = $1
ORDER BY seq`

	rows, err := Instance().QueryContext(ctx, query, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []dealer.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		ev, err := dealer.UnmarshalEvent(payload)
		if err != nil {
			return nil, err
		}

		events = append(events, ev)
	}

	return events, rows.Err()
}
