package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/appliance"
	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *appliance.Log) {
	t.Helper()
	l := appliance.New(appliance.NewRand(11))
	app := fiber.New()
	Register(app, service.New(l, service.Options{TariffRate: 0.2}))
	return app, l
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(body))
}

func TestAddAppliance(t *testing.T) {
	app, l := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/add_appliance",
		`{"name":"AC","hours":4,"power":2500,"date":"2024-07-01","day":"Mon","time":"18:00"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	var res service.SubmitResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.InDelta(t, 10.0, res.TotalEnergy, 1e-9)
	assert.Equal(t, "High energy appliance! Use off-peak. | Avoid peak hours for AC/Heater.", res.Suggestion)
	assert.Equal(t, "10 PM - 6 AM", res.SuggestedOffPeak)
	assert.Equal(t, 12, res.PredictedPeak)
	assert.Len(t, res.Last5["AC"], 1)
	assert.Equal(t, 1, l.Len())
}

func TestAddApplianceValidation(t *testing.T) {
	app, l := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/appliances",
		`{"name":"","hours":1,"power":100,"date":"2024-01-01","day":"Mon","time":"10:00"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "name", payload["field"])
	assert.Equal(t, 0, l.Len())

	status, _ = do(t, app, http.MethodPost, "/api/appliances", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, "/api/appliances", strings.NewReader(`name=Fan`))
	req.Header.Set("Content-Type", "text/plain")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, 0, l.Len())
}

func TestOverflowingReadingIsRejected(t *testing.T) {
	app, l := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/add_appliance",
		`{"name":"Furnace","hours":1e200,"power":1e200,"date":"2024-01-01","day":"Mon","time":"10:00"}`)
	require.Equal(t, http.StatusBadRequest, status, string(body))
	assert.Equal(t, 0, l.Len())

	status, body = do(t, app, http.MethodPost, "/add_appliance",
		`{"name":"Fan","hours":2,"power":75,"date":"2024-01-01","day":"Mon","time":"10:00"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = do(t, app, http.MethodGet, "/api/appliances", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, app, http.MethodGet, "/api/report", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestScheduleAndLast(t *testing.T) {
	app, _ := newTestApp(t)
	for i := 0; i < 7; i++ {
		status, _ := do(t, app, http.MethodPost, "/api/appliances",
			`{"name":"Washer","hours":1,"power":500,"date":"2024-01-03","day":"Wednesday","time":"14:30"}`)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := do(t, app, http.MethodGet, "/api/schedule", "")
	require.Equal(t, http.StatusOK, status)
	var sched struct {
		Days     []string            `json:"days"`
		Schedule map[string][]string `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(body, &sched))
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, sched.Days)
	require.Len(t, sched.Schedule["Washer"], 7)
	assert.Equal(t, "14:00", sched.Schedule["Washer"][2])

	status, body = do(t, app, http.MethodGet, "/api/appliances/last?n=3", "")
	require.Equal(t, http.StatusOK, status)
	var last map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &last))
	assert.Len(t, last["Washer"], 3)

	status, _ = do(t, app, http.MethodGet, "/api/appliances/last?n=0", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBills(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/bills", "")
	require.Equal(t, http.StatusOK, status)

	var bills service.Bills
	require.NoError(t, json.Unmarshal(body, &bills))
	assert.Len(t, bills.Labels, 12)
	assert.Len(t, bills.Values, 12)
}

func TestCannedEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/get_suggestions", "")
	require.Equal(t, http.StatusOK, status)
	var tips []string
	require.NoError(t, json.Unmarshal(body, &tips))
	assert.Len(t, tips, 5)

	status, body = do(t, app, http.MethodGet, "/api/predict", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "6 PM - 9 PM")
}

func TestDisabledSinksReturn503(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/reports", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = do(t, app, http.MethodGet, "/api/archive", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestReport(t *testing.T) {
	app, _ := newTestApp(t)
	status, _ := do(t, app, http.MethodPost, "/add_appliance",
		`{"name":"Fan","hours":"10","power":"75","date":"2024-01-01","day":"Mon","time":"12:00"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodGet, "/api/report", "")
	require.Equal(t, http.StatusOK, status)

	var report service.UsageReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 1, report.RecordCount)
	assert.InDelta(t, 0.75, report.TotalKWh, 1e-9)
}
