package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"cardroom-server/internal/util"
)

// Config provides configuration for the card room server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Game struct {
		// ActionTimeout is how many seconds a player has to act before the
		// dealer folds or checks for them
		ActionTimeout int `yaml:"actionTimeout" envconfig:"action_timeout"`
	}
}

// DefaultConfig returns the configuration defaults
func DefaultConfig() Config {
	var c Config
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.JWT.PublicKey = "jwt.pub"
	c.JWT.PrivateKey = "jwt.key"
	c.Game.ActionTimeout = 30
	return c
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// defaults and the environment take over.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("CARDROOM_CONFIG_FILE", "config.yaml")
	if file, err := os.Open(configFile); err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("cardroom", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
