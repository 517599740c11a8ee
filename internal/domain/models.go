package domain

import "fmt"

// ApplianceInput is a submitted reading before validation. Hours and Power
// stay raw so non-numeric values can be rejected with a field error.
type ApplianceInput struct {
	Name  string `json:"name"`
	Hours any    `json:"hours"`
	Power any    `json:"power"`
	Date  string `json:"date"`
	Day   string `json:"day"`
	Time  string `json:"time"`
}

type ApplianceRecord struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Hours     float64 `db:"hours" json:"hours"`
	Power     float64 `db:"power" json:"power"`
	Date      string  `db:"date" json:"date"`
	Day       string  `db:"day" json:"day"`
	Time      string  `db:"time" json:"time"`
	EnergyKWh float64 `db:"energy" json:"energy"`
}

// ValidationError rejects a submission. Field names the offending input key.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
