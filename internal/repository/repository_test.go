package repository

import (
	"context"
	"testing"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "hours", "power", "date", "day", "time", "energy"}

func newMockRepos(t *testing.T) (*Repos, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "pgx")), mock
}

func TestArchiveBindsNamedParameters(t *testing.T) {
	repos, mock := newMockRepos(t)
	rec := domain.ApplianceRecord{
		ID: "rec-1", Name: "Heater", Hours: 3, Power: 2500,
		Date: "2024-01-03", Day: "Wed", Time: "18:00", EnergyKWh: 7.5,
	}

	mock.ExpectExec(`INSERT INTO appliance_records\(id, name, hours, power, date, day, time, energy\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs("rec-1", "Heater", 3.0, 2500.0, "2024-01-03", "Wed", "18:00", 7.5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repos.Archive(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(`SELECT id, name, hours, power, date, day, time, energy\s+FROM appliance_records ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("b", "Fan", 2.0, 75.0, "2024-01-02", "Tue", "12:00", 0.15).
			AddRow("a", "Oven", 1.0, 2000.0, "2024-01-01", "Mon", "18:00", 2.0))

	recs, err := repos.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Fan", recs[0].Name)
	assert.InDelta(t, 0.15, recs[0].EnergyKWh, 1e-9)
	assert.Equal(t, "Oven", recs[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentEmptyIsNotNil(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(`SELECT id, name`).
		WithArgs(int64(50)).
		WillReturnRows(sqlmock.NewRows(columns))

	recs, err := repos.ListRecent(50)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
