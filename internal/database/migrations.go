package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createAdminsTable,
		createEventsTable,
		createOccurrencesTable,
		createPurchasesTable,
		createPurchaseParticipantsTable,
		createPurchaseOccurrencesTable,
		createPurchasesStatusIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createAdminsTable = `
CREATE TABLE IF NOT EXISTS admins (
    id SERIAL PRIMARY KEY,
    email VARCHAR(120) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    title VARCHAR(120) NOT NULL,
    pricing_mode VARCHAR(20) NOT NULL,
    price BIGINT NOT NULL,
    capacity_default INTEGER,
    category VARCHAR(20) NOT NULL DEFAULT 'class',
    location_name VARCHAR(120) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'draft',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (pricing_mode IN ('PACKAGE', 'PER_OCCURRENCE')),
    CHECK (price >= 0),
    CHECK (status IN ('draft', 'published', 'closed'))
);`

const createOccurrencesTable = `
CREATE TABLE IF NOT EXISTS occurrences (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    start_at TIMESTAMPTZ NOT NULL,
    end_at TIMESTAMPTZ NOT NULL,
    capacity_override INTEGER,
    price_override BIGINT,
    status VARCHAR(20) NOT NULL DEFAULT 'scheduled',

    UNIQUE (event_id, start_at),
    CHECK (end_at > start_at),
    CHECK (status IN ('scheduled', 'cancelled'))
);`

const createPurchasesTable = `
CREATE TABLE IF NOT EXISTS purchases (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    buyer_name VARCHAR(120) NOT NULL,
    buyer_email VARCHAR(120) NOT NULL,
    buyer_phone VARCHAR(30) NOT NULL,
    total_amount BIGINT NOT NULL,
    tbk_token VARCHAR(120) UNIQUE,
    buy_order VARCHAR(120) UNIQUE,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    paid_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'paid', 'failed', 'expired', 'cancelled'))
);`

const createPurchaseParticipantsTable = `
CREATE TABLE IF NOT EXISTS purchase_participants (
    id SERIAL PRIMARY KEY,
    purchase_id INTEGER NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
    name VARCHAR(120) NOT NULL,
    age INTEGER NOT NULL,

    CHECK (age > 0)
);`

const createPurchaseOccurrencesTable = `
CREATE TABLE IF NOT EXISTS purchase_occurrences (
    purchase_id INTEGER NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
    occurrence_id INTEGER NOT NULL REFERENCES occurrences(id) ON DELETE CASCADE,

    PRIMARY KEY (purchase_id, occurrence_id)
);`

const createPurchasesStatusIndex = `
CREATE INDEX IF NOT EXISTS purchases_event_status_idx
ON purchases (event_id, status);`
