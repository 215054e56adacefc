package mux

import (
	"net/http"

	"github.com/gorilla/mux"

	"cardroom-server/pkg/db"
	"cardroom-server/pkg/poker/dealer"
	"cardroom-server/pkg/poker/holdem"
)

type getHandResponse struct {
	ID       string         `json:"id"`
	RoomCode string         `json:"roomCode"`
	Options  holdem.Options `json:"options"`
	Events   []handEvent    `json:"events"`
}

type handEvent struct {
	Type  string       `json:"type"`
	Event dealer.Event `json:"event"`
}

// getHandID returns a finished hand's options and full event log
func (m *Mux) getHandID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		hand, err := db.GetHand(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		if hand == nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		events, err := db.GetHandEvents(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		resp := getHandResponse{
			ID:       hand.ID,
			RoomCode: hand.RoomCode,
			Options:  hand.Options,
			Events:   make([]handEvent, len(events)),
		}

		for i, ev := range events {
			resp.Events[i] = handEvent{Type: ev.EventType(), Event: ev}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
