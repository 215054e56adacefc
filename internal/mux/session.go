package mux

import (
	"errors"
	"net/http"
	"regexp"

	"cardroom-server/internal/jwt"
	"cardroom-server/internal/util"
)

type sessionPayload struct {
	Nickname string `json:"nickname"`
}

type sessionResponse struct {
	Nickname string `json:"nickname"`
	JWT      string `json:"jwt"`
}

var validNicknameRx = regexp.MustCompile(`^[\p{L}\p{N}_-]{1,24}\z`)

// postSession issues a signed token for a nickname. There are no accounts;
// whoever holds the token is that player.
func (m *Mux) postSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sp sessionPayload
		if !decodeRequest(w, r, &sp) {
			return
		}

		if sp.Nickname == "" {
			sp.Nickname = util.GetRandomName()
		}

		if !validNicknameRx.MatchString(sp.Nickname) {
			writeJSONError(w, http.StatusBadRequest, errors.New("nickname must only contain letters, numbers, hyphens, and underscores, and be 24 characters or less"))
			return
		}

		signed, err := jwt.Sign(sp.Nickname)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, sessionResponse{
			Nickname: sp.Nickname,
			JWT:      signed,
		})
	}
}
