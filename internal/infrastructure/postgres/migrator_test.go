package postgres

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		t.Fatalf("failed to open migrations: %v", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		t.Fatalf("expected at least one migration: %v", err)
	}

	for {
		up, _, err := src.ReadUp(version)
		if err != nil {
			t.Fatalf("missing up migration %d: %v", version, err)
		}
		upSQL, _ := io.ReadAll(up)
		up.Close()

		down, _, err := src.ReadDown(version)
		if err != nil {
			t.Fatalf("missing down migration %d: %v", version, err)
		}
		down.Close()

		if version == 1 && !strings.Contains(string(upSQL), "NUMERIC(78, 0)") {
			t.Fatalf("expected amounts to be stored as NUMERIC(78, 0)")
		}

		next, err := src.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		if err != nil {
			t.Fatalf("failed to read next migration: %v", err)
		}
		version = next
	}
}

func TestRunMigrationsRejectsBadURL(t *testing.T) {
	if err := RunMigrations("not-a-url", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for invalid database URL")
	}
}
