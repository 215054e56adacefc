package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/config"
	"cardroom-server/internal/jwt"
	"cardroom-server/pkg/poker/holdem"
	"cardroom-server/pkg/room"
)

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return
	}

	assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	assertDo(t, req, respObj, statusCode, signedJWT...)
}

func setupJWT() {
	os.Setenv("CARDROOM_JWT_PUBLIC_KEY", "testdata/public.pem")
	os.Setenv("CARDROOM_JWT_PRIVATE_KEY", "testdata/private.key")
	if err := config.Load(); err != nil {
		panic(err)
	}

	jwt.LoadKeys()
}

func noopSaver() room.HandSaver {
	return room.HandSaverFunc(func(ctx context.Context, roomCode string, hand *holdem.Hand) error {
		return nil
	})
}

func testMux(t *testing.T) *Mux {
	t.Helper()
	setupJWT()

	pitBoss := room.NewPitBoss(noopSaver(), time.Hour)
	pitBoss.StartShift()

	return NewMux("", pitBoss)
}
