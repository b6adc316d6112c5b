package config

import (
	"strings"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_KEY", strings.Repeat("k", 32))
	t.Setenv("CLINIC_TIMEZONE", "Asia/Tehran")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.CancelLeadTime.Hours() != 24 {
		t.Fatalf("expected 24h cancel lead time, got %v", cfg.CancelLeadTime)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath == "" {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Tehran" {
		t.Fatalf("unexpected location %v (%v)", loc, err)
	}
}

func TestLoad_RejectsShortJWTKey(t *testing.T) {
	t.Setenv("JWT_KEY", "short")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for short JWT key")
	}
}

func TestDBConfig_Validate(t *testing.T) {
	cfg := DBConfig{Driver: DriverPostgres}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty postgres settings")
	}

	cfg = DBConfig{Driver: "oracle"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}

	cfg = DBConfig{Driver: DriverSQLite, SQLitePath: ":memory:"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
