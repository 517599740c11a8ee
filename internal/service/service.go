package service

import (
	"context"
	"errors"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/appliance"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	PredictedPeakHour = 12
	SuggestedOffPeak  = "10 PM - 6 AM"
	lastWindow        = 5
)

var (
	ErrArchiveDisabled = errors.New("archive database not enabled")
	ErrCloudDisabled   = errors.New("cloud services not enabled")
)

// Archiver receives a copy of every accepted record. Archives are write-only
// mirrors; the in-memory log is never rebuilt from them.
type Archiver interface {
	Archive(ctx context.Context, rec domain.ApplianceRecord) error
}

// Notifier is told about records that tripped at least one off-peak rule.
type Notifier interface {
	NotifyHighUsage(ctx context.Context, rec domain.ApplianceRecord, suggestions []string) error
}

// ArchiveReader lists archived records, newest first.
type ArchiveReader interface {
	ListRecent(limit int) ([]domain.ApplianceRecord, error)
}

// ReportUploader stores an exported report and returns a download URL.
type ReportUploader interface {
	UploadReport(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Services struct {
	Appliances *ApplianceService
	Reports    *ReportService
}

type Options struct {
	Archivers  []Archiver
	Notifier   Notifier
	Archive    ArchiveReader
	Uploader   ReportUploader
	TariffRate float64
}

func New(l *appliance.Log, opts Options) *Services {
	return &Services{
		Appliances: &ApplianceService{
			log:       l,
			archivers: opts.Archivers,
			notifier:  opts.Notifier,
			archive:   opts.Archive,
		},
		Reports: &ReportService{
			log:      l,
			uploader: opts.Uploader,
			rate:     opts.TariffRate,
		},
	}
}

type ApplianceService struct {
	log       *appliance.Log
	archivers []Archiver
	notifier  Notifier
	archive   ArchiveReader
}

// SubmitResult is everything the dashboard refreshes after a submission.
type SubmitResult struct {
	Record           domain.ApplianceRecord              `json:"record"`
	Appliances       []domain.ApplianceRecord            `json:"appliances"`
	Last5            map[string][]domain.ApplianceRecord `json:"last5"`
	TotalEnergy      float64                             `json:"total_energy"`
	Suggestions      []string                            `json:"suggestions"`
	Suggestion       string                              `json:"suggestion"`
	PredictedPeak    int                                 `json:"predicted_peak"`
	SuggestedOffPeak string                              `json:"suggested_off_peak"`
}

// Submit appends a reading and returns the refreshed views. Archive and
// notification failures are logged and never reject the submission.
func (s *ApplianceService) Submit(ctx context.Context, in domain.ApplianceInput) (*SubmitResult, error) {
	rec, err := s.log.Append(in)
	if err != nil {
		return nil, err
	}

	suggestions := appliance.SuggestionsFor(rec)
	s.fanOut(ctx, rec, suggestions)

	if suggestions == nil {
		suggestions = []string{}
	}
	return &SubmitResult{
		Record:           rec,
		Appliances:       s.log.Records(),
		Last5:            s.log.LastNPerAppliance(lastWindow),
		TotalEnergy:      s.log.TotalEnergyKWh(),
		Suggestions:      suggestions,
		Suggestion:       appliance.SuggestionMessage(suggestions),
		PredictedPeak:    PredictedPeakHour,
		SuggestedOffPeak: SuggestedOffPeak,
	}, nil
}

// Ingest appends a reading from a non-interactive source.
func (s *ApplianceService) Ingest(ctx context.Context, in domain.ApplianceInput) (domain.ApplianceRecord, error) {
	rec, err := s.log.Append(in)
	if err != nil {
		return rec, err
	}
	s.fanOut(ctx, rec, appliance.SuggestionsFor(rec))
	return rec, nil
}

func (s *ApplianceService) fanOut(ctx context.Context, rec domain.ApplianceRecord, suggestions []string) {
	for _, a := range s.archivers {
		if err := a.Archive(ctx, rec); err != nil {
			log.Error().Err(err).Str("record_id", rec.ID).Msg("archive failed")
		}
	}
	if len(suggestions) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyHighUsage(ctx, rec, suggestions); err != nil {
			log.Error().Err(err).Str("appliance", rec.Name).Msg("high usage alert failed")
		}
	}
}

func (s *ApplianceService) Records() []domain.ApplianceRecord {
	return s.log.Records()
}

func (s *ApplianceService) TotalEnergy() float64 {
	return s.log.TotalEnergyKWh()
}

func (s *ApplianceService) LastN(n int) map[string][]domain.ApplianceRecord {
	return s.log.LastNPerAppliance(n)
}

func (s *ApplianceService) Schedule() map[string][7]string {
	return s.log.WeeklySchedule()
}

// Archived reads back the most recent rows of the relational archive.
func (s *ApplianceService) Archived(limit int) ([]domain.ApplianceRecord, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.ListRecent(limit)
}

// Tips are the static energy saving hints shown next to the input form.
func Tips() []string {
	return []string{
		"Use appliances during off-peak hours.",
		"Turn off devices when not in use.",
		"Avoid high-power appliances during peak hours.",
		"Use LED lighting instead of incandescent bulbs.",
		"Maintain AC/Heater filters for efficiency.",
	}
}

type Prediction struct {
	PeakHours   []string `json:"peak_hours"`
	Suggestions []string `json:"suggestions"`
}

// Predict returns the canned peak-hour insight. There is no model behind it.
func Predict() Prediction {
	return Prediction{
		PeakHours:   []string{"6 PM - 9 PM"},
		Suggestions: []string{"Run Washing Machine after 10 PM", "Use AC between 1 PM - 3 PM"},
	}
}
