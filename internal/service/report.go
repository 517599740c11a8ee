package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/appliance"
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/converter"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	movingWindow  = 3
	peakShare     = 0.4
	reportDateFmt = "2006-01-02"
)

type ReportService struct {
	log      *appliance.Log
	uploader ReportUploader
	rate     float64
}

type ApplianceUsage struct {
	Name      string  `json:"name"`
	Readings  int     `json:"readings"`
	EnergyKWh float64 `json:"energy_kwh"`
}

type UsageReport struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	RecordCount   int                  `json:"record_count"`
	TotalKWh      float64              `json:"total_kwh"`
	TotalMWh      float64              `json:"total_mwh"`
	AverageKWh    float64              `json:"average_kwh"`
	MovingAverage []float64            `json:"moving_average"`
	EstimatedCost float64              `json:"estimated_cost"`
	CostBreakdown map[string]float64   `json:"cost_breakdown"`
	Appliances    []ApplianceUsage     `json:"appliances"`
	Schedule      map[string][7]string `json:"schedule,omitempty"`
}

// Bills is the chart payload for the simulated monthly bill series.
type Bills struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

func (s *ReportService) Bills() Bills {
	return Bills{Labels: appliance.MonthLabels(), Values: s.log.MonthlyBillSeries()}
}

// Usage summarises the log. Costs assume 40% of consumption falls in the
// peak tier.
func (s *ReportService) Usage() UsageReport {
	records := s.log.Records()
	report := UsageReport{
		GeneratedAt:   time.Now().UTC(),
		RecordCount:   len(records),
		MovingAverage: []float64{},
		CostBreakdown: map[string]float64{"peak": 0, "offpeak": 0},
		Appliances:    []ApplianceUsage{},
	}
	if len(records) == 0 {
		return report
	}

	points := make([]aggregator.Point, len(records))
	byName := make(map[string]*ApplianceUsage)
	for i, r := range records {
		ts, err := time.Parse(reportDateFmt, r.Date)
		if err != nil {
			// Non-ISO dates still count toward totals, just without a timestamp.
			log.Debug().Str("record_id", r.ID).Str("date", r.Date).Msg("report point without timestamp")
		}
		points[i] = aggregator.Point{Value: r.EnergyKWh, Timestamp: ts}

		u, ok := byName[r.Name]
		if !ok {
			u = &ApplianceUsage{Name: r.Name}
			byName[r.Name] = u
		}
		u.Readings++
		u.EnergyKWh += r.EnergyKWh
	}

	conv := &converter.EnergyConverter{}
	total := aggregator.Sum(points)
	peakCost := conv.CalculateCost(total*peakShare, s.rate, "peak")
	offPeakCost := conv.CalculateCost(total*(1-peakShare), s.rate, "offpeak")

	report.TotalKWh = total
	report.TotalMWh = conv.KWhToMWh(total)
	report.AverageKWh = aggregator.Average(points)
	if len(points) >= movingWindow {
		report.MovingAverage = aggregator.MovingAverage(points, movingWindow)
	}
	report.EstimatedCost = peakCost + offPeakCost
	report.CostBreakdown["peak"] = peakCost
	report.CostBreakdown["offpeak"] = offPeakCost

	for _, u := range byName {
		report.Appliances = append(report.Appliances, *u)
	}
	sort.Slice(report.Appliances, func(i, j int) bool {
		return report.Appliances[i].Name < report.Appliances[j].Name
	})
	return report
}

// Export uploads the usage report, with the current schedule attached, and
// returns the object key and a download URL.
func (s *ReportService) Export(ctx context.Context) (string, string, error) {
	if s.uploader == nil {
		return "", "", ErrCloudDisabled
	}

	report := s.Usage()
	report.Schedule = s.log.WeeklySchedule()
	data, err := json.Marshal(report)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", report.GeneratedAt.Format(reportDateFmt), uuid.NewString())
	url, err := s.uploader.UploadReport(ctx, key, data, "application/json")
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}
