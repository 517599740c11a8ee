package repository

import (
	"context"
	"fmt"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/jmoiron/sqlx"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// Archive inserts rec into appliance_records.
func (r *Repos) Archive(ctx context.Context, rec domain.ApplianceRecord) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO appliance_records(id, name, hours, power, date, day, time, energy)
		VALUES (:id, :name, :hours, :power, :date, :day, :time, :energy)`, rec)
	if err != nil {
		return fmt.Errorf("insert appliance record: %w", err)
	}
	return nil
}

// ListRecent returns up to limit archived records, newest first.
func (r *Repos) ListRecent(limit int) ([]domain.ApplianceRecord, error) {
	out := []domain.ApplianceRecord{}
	err := r.db.Select(&out, `SELECT id, name, hours, power, date, day, time, energy
		FROM appliance_records ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list appliance records: %w", err)
	}
	return out, nil
}
