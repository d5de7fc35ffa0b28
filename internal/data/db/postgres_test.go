package db

import (
	"testing"

	"github.com/yungbote/force-backend/internal/platform/logger"
)

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "force", Password: "p@ss/word", Name: "force"}
	got := cfg.PostgresDSN()
	want := "postgres://force:p%40ss%2Fword@db:5432/force?sslmode=disable"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "mysql"}, logger.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
