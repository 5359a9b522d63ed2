package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS locations (
    id         INTEGER PRIMARY KEY,
    kind       TEXT NOT NULL CHECK (kind IN ('stock', 'staff')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stocks (
    location_id INTEGER PRIMARY KEY REFERENCES locations(id),
    department  TEXT NOT NULL UNIQUE,
    code        INTEGER UNIQUE
);

CREATE TABLE IF NOT EXISTS staff (
    location_id INTEGER PRIMARY KEY REFERENCES locations(id),
    surname     TEXT NOT NULL,
    forename    TEXT NOT NULL,
    patronymic  TEXT
);

CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS units (
    id     INTEGER PRIMARY KEY,
    key    INTEGER NOT NULL UNIQUE,
    name   TEXT NOT NULL UNIQUE,
    symbol TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS goods (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    location_id INTEGER NOT NULL REFERENCES locations(id),
    category_id INTEGER NOT NULL REFERENCES categories(id),
    unit_id     INTEGER NOT NULL REFERENCES units(id),
    quantity    INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (name, location_id)
);

CREATE INDEX IF NOT EXISTS idx_goods_name ON goods(name);

CREATE TABLE IF NOT EXISTS inventory_numbers (
    id       INTEGER PRIMARY KEY,
    number   INTEGER NOT NULL UNIQUE CHECK (number > 0),
    goods_id INTEGER REFERENCES goods(id)
);

CREATE INDEX IF NOT EXISTS idx_inventory_numbers_goods ON inventory_numbers(goods_id);

CREATE TABLE IF NOT EXISTS transfers (
    id         INTEGER PRIMARY KEY,
    date       DATE NOT NULL,
    number     INTEGER CHECK (number > 0),
    comment    TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transfer_lines (
    id                 INTEGER PRIMARY KEY,
    transfer_id        INTEGER NOT NULL REFERENCES transfers(id),
    sender_goods_id    INTEGER REFERENCES goods(id),
    recipient_goods_id INTEGER REFERENCES goods(id),
    quantity           INTEGER NOT NULL CHECK (quantity > 0),
    price              TEXT NOT NULL,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (sender_goods_id IS NOT NULL OR recipient_goods_id IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_transfer_lines_transfer ON transfer_lines(transfer_id);

CREATE TABLE IF NOT EXISTS transfer_line_numbers (
    line_id   INTEGER NOT NULL REFERENCES transfer_lines(id),
    number_id INTEGER NOT NULL REFERENCES inventory_numbers(id),
    PRIMARY KEY (line_id, number_id)
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
