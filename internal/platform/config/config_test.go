package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseEnv_Defaults(t *testing.T) {
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	if cfg.Addr() != ":8080" || cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LaunchpadMax != 81 || cfg.GenesisCap != 300 || cfg.RandomService != "crypto" {
		t.Fatalf("unexpected supply defaults: %+v", cfg)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.UpstreamTimeout)
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("LAUNCHPAD_MAX_SUPPLY", "10")
	t.Setenv("RANDOM_SERVICE", "seeded:7")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	if cfg.Addr() != ":9090" || cfg.StorageDriver != StorageSQLite || cfg.LaunchpadMax != 10 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RandomService != "seeded:7" {
		t.Fatalf("unexpected random service %q", cfg.RandomService)
	}
}

func TestParseEnv_Errors(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	if _, err := ParseEnv(); err == nil || !strings.Contains(err.Error(), "DB_DSN") {
		t.Fatalf("expected DB_DSN error, got %v", err)
	}

	t.Setenv("STORAGE_DRIVER", "mongo")
	if _, err := ParseEnv(); err == nil || !strings.HasPrefix(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GENESIS_CAP", "-1")
	if _, err := ParseEnv(); err == nil || !strings.HasPrefix(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestParseEnv_RejectsZeroCaps(t *testing.T) {
	t.Setenv("GENESIS_CAP", "0")
	if _, err := ParseEnv(); err == nil || !strings.Contains(err.Error(), "GENESIS_CAP") {
		t.Fatalf("expected GENESIS_CAP error, got %v", err)
	}

	t.Setenv("GENESIS_CAP", "300")
	t.Setenv("LAUNCHPAD_MAX_SUPPLY", "0")
	if _, err := ParseEnv(); err == nil || !strings.Contains(err.Error(), "LAUNCHPAD_MAX_SUPPLY") {
		t.Fatalf("expected LAUNCHPAD_MAX_SUPPLY error, got %v", err)
	}
}

func TestParseEnv_LedgerSeed(t *testing.T) {
	t.Setenv("LEDGER_SEED_BALANCES", "token-a:alice:100,token-b:alice:5000")
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	if len(cfg.LedgerSeed) != 2 || cfg.LedgerSeed[1] != "token-b:alice:5000" {
		t.Fatalf("unexpected ledger seed %v", cfg.LedgerSeed)
	}

	t.Setenv("LEDGER_URL", "https://ledger.example.com")
	if _, err := ParseEnv(); err == nil || !strings.Contains(err.Error(), "LEDGER_SEED_BALANCES") {
		t.Fatalf("expected LEDGER_SEED_BALANCES error, got %v", err)
	}
}
