package storage

import (
	"database/sql"
	"fmt"
	"time"

	"booking-scraper/utils"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection
func Open(connStr string, logger *utils.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := utils.RetryWithBackoff(3, db.Ping, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return db, nil
}

// EnsureSchema creates the scraping tables and indexes if they don't exist.
// The unique index on scrape_sessions enforces the at-most-one-session-per
// (hotel, checkin, checkout) invariant; the one on room_types backs the
// case-insensitive find-or-create.
func EnsureSchema(db *sql.DB, logger *utils.Logger) error {
	query := `
	CREATE TABLE IF NOT EXISTS hotels (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		url        TEXT,
		currency   VARCHAR(8)
	);

	CREATE TABLE IF NOT EXISTS proxies (
		id         SERIAL PRIMARY KEY,
		ip_address TEXT NOT NULL,
		port       INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS room_types (
		id          SERIAL PRIMARY KEY,
		hotel_id    INTEGER NOT NULL,
		name        TEXT NOT NULL,
		description TEXT,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_room_types_hotel_lower_name
		ON room_types (hotel_id, LOWER(name));

	CREATE TABLE IF NOT EXISTS scrape_sessions (
		id               SERIAL PRIMARY KEY,
		hotel_id         INTEGER NOT NULL,
		proxy_id         INTEGER,
		checkin_date     DATE NOT NULL,
		checkout_date    DATE NOT NULL,
		adults           INTEGER NOT NULL DEFAULT 1,
		children         INTEGER NOT NULL DEFAULT 0,
		currency         VARCHAR(8),
		capture_date     TIMESTAMP,
		url_requested    TEXT,
		response_status  INTEGER,
		request_params   TEXT,
		error_message    TEXT,
		success          BOOLEAN NOT NULL DEFAULT FALSE,
		notes            TEXT,
		room_types_found INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL,
		UNIQUE (hotel_id, checkin_date, checkout_date)
	);

	CREATE TABLE IF NOT EXISTS room_availabilities (
		id                   SERIAL PRIMARY KEY,
		scrape_session_id    INTEGER NOT NULL REFERENCES scrape_sessions (id),
		room_type_id         INTEGER NOT NULL REFERENCES room_types (id),
		room_available_count INTEGER,
		offer                TEXT,
		base_price           NUMERIC(10,2) DEFAULT 0,
		final_price          NUMERIC(10,2) DEFAULT 0,
		non_refundable       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMP NOT NULL,
		updated_at           TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_room_availabilities_session
		ON room_availabilities (scrape_session_id);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Info("Database schema is ready")
	return nil
}
