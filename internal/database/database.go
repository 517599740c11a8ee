package database

import (
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const schema = `CREATE TABLE IF NOT EXISTS appliance_records (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	hours      DOUBLE PRECISION NOT NULL,
	power      DOUBLE PRECISION NOT NULL,
	date       TEXT NOT NULL,
	day        TEXT NOT NULL,
	time       TEXT NOT NULL,
	energy     DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func Connect() (*sqlx.DB, error) {
	return sqlx.Connect("pgx", config.DBDSN())
}

// Migrate creates the archive table if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
