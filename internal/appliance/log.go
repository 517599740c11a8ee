// Package appliance holds the in-memory appliance usage log and the views
// derived from it.
package appliance

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/google/uuid"
)

const (
	MsgHighEnergy = "High energy appliance! Use off-peak."
	MsgPeakHVAC   = "Avoid peak hours for AC/Heater."
	MsgAdded      = "Appliance added."

	highPowerWatts = 2000
	offPeakEndHour = 5

	scheduleMinHour = 6
	scheduleMaxHour = 22

	billBaseMin = 80
	billBaseMax = 150
	billJitter  = 20
	billMonths  = 12
)

// Days is the canonical order of a weekly schedule row.
var Days = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var hvacNames = map[string]bool{"ac": true, "air conditioner": true, "heater": true}

// Log is an append-only, insertion-ordered list of appliance records.
// All methods are safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	records  []domain.ApplianceRecord
	rng      *rand.Rand
	billBase int
}

// New returns an empty log drawing its random fallbacks from rng.
// A nil rng is replaced by a clock-seeded source.
func New(rng *rand.Rand) *Log {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Log{rng: rng}
}

// NewRand builds a PCG source. Seed 0 means seed from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Append validates in, derives the energy figure and stores the record.
// On a validation failure the log is left untouched.
func (l *Log) Append(in domain.ApplianceInput) (domain.ApplianceRecord, error) {
	rec, err := buildRecord(in)
	if err != nil {
		return domain.ApplianceRecord{}, err
	}
	rec.ID = uuid.NewString()

	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return rec, nil
}

func buildRecord(in domain.ApplianceInput) (domain.ApplianceRecord, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ApplianceRecord{}, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	hours, err := parseAmount("hours", in.Hours)
	if err != nil {
		return domain.ApplianceRecord{}, err
	}
	power, err := parseAmount("power", in.Power)
	if err != nil {
		return domain.ApplianceRecord{}, err
	}
	for _, f := range []struct{ field, v string }{{"date", in.Date}, {"day", in.Day}, {"time", in.Time}} {
		if strings.TrimSpace(f.v) == "" {
			return domain.ApplianceRecord{}, &domain.ValidationError{Field: f.field, Reason: "required"}
		}
	}
	if _, err := HourOf(in.Time); err != nil {
		return domain.ApplianceRecord{}, &domain.ValidationError{Field: "time", Reason: err.Error()}
	}
	energy := hours * power / 1000
	if math.IsInf(energy, 0) {
		return domain.ApplianceRecord{}, &domain.ValidationError{Field: "power", Reason: "energy out of range"}
	}

	return domain.ApplianceRecord{
		Name:      in.Name,
		Hours:     hours,
		Power:     power,
		Date:      in.Date,
		Day:       in.Day,
		Time:      in.Time,
		EnergyKWh: energy,
	}, nil
}

func parseAmount(field string, v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, &domain.ValidationError{Field: field, Reason: "not a number"}
		}
		f = p
	case nil:
		return 0, &domain.ValidationError{Field: field, Reason: "required"}
	default:
		return 0, &domain.ValidationError{Field: field, Reason: "not a number"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &domain.ValidationError{Field: field, Reason: "not a number"}
	}
	if f < 0 {
		return 0, &domain.ValidationError{Field: field, Reason: "must not be negative"}
	}
	return f, nil
}

// HourOf returns the integer before the first ':' of a wall-clock time.
func HourOf(t string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(t), ":")
	h, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("hour %q is not an integer", head)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour %d out of range", h)
	}
	return h, nil
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Records returns a copy of every record in insertion order.
func (l *Log) Records() []domain.ApplianceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.ApplianceRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Names returns the distinct appliance names, sorted.
func (l *Log) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.namesLocked()
}

func (l *Log) namesLocked() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range l.records {
		if !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (l *Log) TotalEnergyKWh() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0.0
	for _, r := range l.records {
		total += r.EnergyKWh
	}
	return total
}

// LastNPerAppliance groups records by name and keeps the newest n of each,
// oldest first.
func (l *Log) LastNPerAppliance(n int) map[string][]domain.ApplianceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	groups := make(map[string][]domain.ApplianceRecord)
	for _, r := range l.records {
		groups[r.Name] = append(groups[r.Name], r)
	}
	if n < 0 {
		n = 0
	}
	for name, g := range groups {
		if len(g) > n {
			groups[name] = g[len(g)-n:]
		}
	}
	return groups
}

// SuggestionsFor applies the off-peak rules to rec. An empty result means no
// rule fired.
func SuggestionsFor(rec domain.ApplianceRecord) []string {
	hour, err := HourOf(rec.Time)
	if err != nil {
		return nil
	}
	if hour >= 0 && hour < offPeakEndHour {
		return nil
	}

	var out []string
	if rec.Power > highPowerWatts {
		out = append(out, MsgHighEnergy)
	}
	if hvacNames[strings.ToLower(rec.Name)] {
		out = append(out, MsgPeakHVAC)
	}
	return out
}

// SuggestionMessage renders the rule output the way the dashboard shows it.
func SuggestionMessage(suggestions []string) string {
	if len(suggestions) == 0 {
		return MsgAdded
	}
	return strings.Join(suggestions, " | ")
}

// WeeklySchedule maps each appliance to seven start hours, Mon through Sun.
// A day with a recorded reading uses the hour of the last one; other days get
// a random hour between 6 and 22, redrawn on every call.
func (l *Log) WeeklySchedule() map[string][7]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	type key struct{ name, day string }
	last := make(map[key]int)
	for _, r := range l.records {
		h, err := HourOf(r.Time)
		if err != nil {
			continue
		}
		last[key{r.Name, dayCode(r.Day)}] = h
	}

	schedule := make(map[string][7]string)
	for _, name := range l.namesLocked() {
		var row [7]string
		for i, day := range Days {
			h, ok := last[key{name, day}]
			if !ok {
				h = scheduleMinHour + l.rng.IntN(scheduleMaxHour-scheduleMinHour+1)
			}
			row[i] = fmt.Sprintf("%d:00", h)
		}
		schedule[name] = row
	}
	return schedule
}

func dayCode(day string) string {
	r := []rune(day)
	if len(r) <= 3 {
		return day
	}
	return string(r[:3])
}

// MonthlyBillSeries returns twelve simulated bills. The first is a base value
// fixed for the life of the log; the rest vary around it on every call.
func (l *Log) MonthlyBillSeries() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.billBase == 0 {
		l.billBase = billBaseMin + l.rng.IntN(billBaseMax-billBaseMin+1)
	}
	bills := make([]int, billMonths)
	bills[0] = l.billBase
	for i := 1; i < billMonths; i++ {
		bills[i] = l.billBase + l.rng.IntN(2*billJitter+1) - billJitter
	}
	return bills
}

// MonthLabels returns "Month 1" through "Month 12".
func MonthLabels() []string {
	labels := make([]string, billMonths)
	for i := range labels {
		labels[i] = fmt.Sprintf("Month %d", i+1)
	}
	return labels
}
