// Package sqlitetest поднимает in-memory SQLite со схемой сервиса для тестов репозиториев и use case'ов.
// SQL репозиториев использует только общий для PostgreSQL и SQLite диалект
// (ON CONFLICT, RETURNING, частичные индексы), поэтому тесты гоняют настоящие запросы.
package sqlitetest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/m04kA/SMC-TutorBooking/pkg/dbmetrics"
)

const schema = `
CREATE TABLE availability_slots (
    provider_id TEXT      NOT NULL,
    week_number INTEGER   NOT NULL,
    slot_label  TEXT      NOT NULL,
    mode        TEXT      NOT NULL CHECK (mode IN ('unavailable', 'onsite', 'remote')),
    updated_at  TIMESTAMP NOT NULL,
    PRIMARY KEY (provider_id, week_number, slot_label)
);

CREATE TABLE bookings (
    id           TEXT PRIMARY KEY,
    provider_id  TEXT      NOT NULL,
    claimant_id  TEXT      NOT NULL,
    week_number  INTEGER   NOT NULL,
    slot_label   TEXT      NOT NULL,
    mode         TEXT      NOT NULL CHECK (mode IN ('onsite', 'remote')),
    status       TEXT      NOT NULL,
    created_at   TIMESTAMP NOT NULL,
    updated_at   TIMESTAMP NOT NULL,
    cancelled_at TIMESTAMP NULL
);

CREATE UNIQUE INDEX bookings_live_slot_uidx
    ON bookings (provider_id, week_number, slot_label)
    WHERE status = 'active';
`

// New открывает новую пустую базу; соединение одно, иначе каждое получит свою :memory: базу
func New(t *testing.T) *dbmetrics.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return dbmetrics.Wrap(db, nil)
}
