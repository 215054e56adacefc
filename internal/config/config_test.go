package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := setEnv("CARDROOM_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := setEnv("CARDROOM_JWT_PRIVATE_KEY", "private2.key")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("postgres://cardroom@db:5432/cardroom?sslmode=disable", cfg.PGDSN)
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal(15, cfg.Game.ActionTimeout)

	// ensure that it's only loaded once
	_ = os.Setenv("CARDROOM_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestDefaults(t *testing.T) {
	clear := setEnv("CARDROOM_CONFIG_FILE", "testdata/missing.yaml")
	defer clear()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, "./sql", cfg.MigrationsPath)
	assert.Equal(t, 30, cfg.Game.ActionTimeout)
}

func setEnv(key, val string) func() {
	orig := os.Getenv(key)
	_ = os.Setenv(key, val)
	return func() {
		if orig == "" {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, orig)
		}
	}
}
