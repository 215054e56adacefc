package mux

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/jwt"
)

func TestMux_postSession(t *testing.T) {
	a := assert.New(t)
	ts := httptest.NewServer(testMux(t))
	defer ts.Close()

	var session sessionResponse
	assertPost(t, ts, "/session", sessionPayload{Nickname: "alice"}, &session, 201)
	a.Equal("alice", session.Nickname)

	nickname, err := jwt.ValidNickname(session.JWT)
	a.NoError(err)
	a.Equal("alice", nickname)

	var errObj errorResponse
	assertPost(t, ts, "/session", sessionPayload{Nickname: "not ok!"}, &errObj, 400)
	a.Equal("nickname must only contain letters, numbers, hyphens, and underscores, and be 24 characters or less", errObj.Message)

	// an empty nickname gets a guest name
	var guest sessionResponse
	assertPost(t, ts, "/session", sessionPayload{}, &guest, 201)
	a.NotEmpty(guest.Nickname)
	a.Regexp(`^[A-Z][a-z]+-[A-Z][a-z]+$`, guest.Nickname)
}
