// Package config carga la configuración de arranque desde variables de entorno.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"
	StoragePostgres StorageDriver = "postgres"
	StorageSQLite   StorageDriver = "sqlite"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"pass-breeding"`

	StorageDriver StorageDriver `env:"STORAGE_DRIVER" envDefault:"memory"`
	DBDSN         string        `env:"DB_DSN"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"pass-breeding.db"`

	AdminAccount     string `env:"ADMIN_ACCOUNT"`
	TreasuryAccount  string `env:"TREASURY_ACCOUNT"`
	FeeTokenA        string `env:"FEE_TOKEN_A"`
	FeeTokenB        string `env:"FEE_TOKEN_B"`
	BaseURI          string `env:"BASE_URI"`
	LaunchpadAccount string `env:"LAUNCHPAD_ACCOUNT"`
	LaunchpadMax     uint64 `env:"LAUNCHPAD_MAX_SUPPLY" envDefault:"81"`
	GenesisCap       uint64 `env:"GENESIS_CAP" envDefault:"300"`

	RandomService       string `env:"RANDOM_SERVICE" envDefault:"crypto"`
	RandomServiceAPIKey string `env:"RANDOM_SERVICE_API_KEY"`

	LedgerURL    string `env:"LEDGER_URL"`
	LedgerAPIKey string `env:"LEDGER_API_KEY"`

	// Saldos iniciales del ledger in-memory: token:account:amount separados por coma.
	LedgerSeed []string `env:"LEDGER_SEED_BALANCES"`

	AuthBaseURL string `env:"AUTH_BASE_URL"`
	AuthAPIKey  string `env:"AUTH_API_KEY"`

	OTelEndpoint string `env:"PASS_BREEDING_OTEL_ENDPOINT"`

	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
}

// ParseEnv lee el entorno y valida las combinaciones que env no cubre.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageDriver = StorageDriver(strings.ToLower(strings.TrimSpace(string(cfg.StorageDriver))))

	switch cfg.StorageDriver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return Config{}, fmt.Errorf("parse env: DB_DSN is required for STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("parse env: unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// 0 no significa "default": un cap explícito en 0 es un error de config.
	if cfg.GenesisCap == 0 {
		return Config{}, fmt.Errorf("parse env: GENESIS_CAP must be > 0")
	}
	if cfg.LaunchpadMax == 0 {
		return Config{}, fmt.Errorf("parse env: LAUNCHPAD_MAX_SUPPLY must be > 0")
	}
	if len(cfg.LedgerSeed) > 0 && strings.TrimSpace(cfg.LedgerURL) != "" {
		return Config{}, fmt.Errorf("parse env: LEDGER_SEED_BALANCES only applies without LEDGER_URL")
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
