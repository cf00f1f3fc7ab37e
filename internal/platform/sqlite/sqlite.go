// Package sqlite opens the embedded SQLite store used by the sqlx adapters.
package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Open connects to the SQLite file at dsn, enables foreign keys and applies
// the schema. SQLite serialises writers, so the pool holds a single connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables when they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders timestamps the way the schema stores them.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime reads a timestamp written by FormatTime.
func ParseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS tb_category(
  id   INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tb_product(
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  name        TEXT NOT NULL,
  description TEXT,
  price       NUMERIC NOT NULL CHECK (price >= 0),
  img_url     TEXT
);
CREATE INDEX IF NOT EXISTS idx_tb_product_name ON tb_product(LOWER(name));

CREATE TABLE IF NOT EXISTS tb_product_category(
  product_id  INTEGER NOT NULL REFERENCES tb_product(id) ON DELETE CASCADE,
  category_id INTEGER NOT NULL REFERENCES tb_category(id) ON DELETE RESTRICT,
  PRIMARY KEY (product_id, category_id)
);

CREATE TABLE IF NOT EXISTS tb_role(
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  authority TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tb_user(
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  name       TEXT NOT NULL,
  email      TEXT NOT NULL UNIQUE,
  phone      TEXT,
  birth_date TEXT,
  password   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tb_user_role(
  user_id INTEGER NOT NULL REFERENCES tb_user(id) ON DELETE CASCADE,
  role_id INTEGER NOT NULL REFERENCES tb_role(id) ON DELETE RESTRICT,
  PRIMARY KEY (user_id, role_id)
);

CREATE TABLE IF NOT EXISTS tb_order(
  id        INTEGER PRIMARY KEY AUTOINCREMENT,
  moment    TEXT NOT NULL,
  status    TEXT NOT NULL,
  client_id INTEGER NOT NULL REFERENCES tb_user(id) ON DELETE RESTRICT
);
CREATE INDEX IF NOT EXISTS idx_tb_order_client ON tb_order(client_id);

CREATE TABLE IF NOT EXISTS tb_order_item(
  order_id   INTEGER NOT NULL REFERENCES tb_order(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES tb_product(id) ON DELETE RESTRICT,
  quantity   INTEGER NOT NULL CHECK (quantity > 0),
  price      NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS user_sessions(
  token      TEXT PRIMARY KEY,
  username   TEXT NOT NULL,
  expires_at TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_user_sessions_username ON user_sessions(username);
`
