package mux

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"

	"cardroom-server/pkg/poker/holdem"
	"cardroom-server/pkg/room"
)

type postTablePayload struct {
	Name    string         `json:"name"`
	Options holdem.Options `json:"options"`
}

func (m *Mux) postTable() http.HandlerFunc {
	var wordChar = regexp.MustCompile(`\w`)
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !wordChar.MatchString(pp.Name) || len(pp.Name) < 3 || len(pp.Name) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		table, err := m.pitBoss.CreateTable(pp.Name, pp.Options)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusCreated, table)
	}
}

func (m *Mux) getTableCode() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := r.Context().Value(ctxTableKey).(*room.Table)
		writeJSON(w, http.StatusOK, table)
	})
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := mux.Vars(r)["code"]
		table, err := m.pitBoss.GetTable(code)
		if err != nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, table)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
