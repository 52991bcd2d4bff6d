package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tc := range testCases {
		if got := isUniqueViolation(tc.err); got != tc.want {
			t.Errorf("%s: isUniqueViolation = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SPED_DATABASE_URL", "postgres://localhost/sped_test")
	t.Setenv("SPED_TENANT_ID", "t1")
	t.Setenv("SPED_DEFAULT_REGION", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.DSN != "postgres://localhost/sped_test" || cfg.TenantID != "t1" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.DefaultRegion != "SP" {
		t.Errorf("DefaultRegion = %q, want default %q", cfg.DefaultRegion, "SP")
	}
}

func TestLoadConfigRequiresDSN(t *testing.T) {
	t.Setenv("SPED_DATABASE_URL", "")
	t.Setenv("SPED_TENANT_ID", "t1")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() without DSN should fail")
	}
}
