package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/esgdesk/pkg/config"
	"github.com/esgdesk/pkg/database"
	"github.com/esgdesk/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t     *testing.T
	app   *App
	token string
}

func newTestServer(t *testing.T, enforce bool) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.JWT.Secret = "esgdd-test-secret"
	cfg.Casbin.Enforce = enforce

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", LogLevel: "silent"})
	require.NoError(t, err)

	a, err := New(Deps{Config: cfg, DB: db, Metrics: metrics.New(ServiceName)})
	require.NoError(t, err)

	token, err := a.JWT.GenerateToken(1, "auditor", "admin")
	require.NoError(t, err)
	return &testServer{t: t, app: a, token: token}
}

func (s *testServer) send(req *http.Request) (*http.Response, envelope) {
	s.t.Helper()
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := s.app.Fiber.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (s *testServer) do(method, path string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, env := s.send(req)
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type planData struct {
	Plan struct {
		Status string `json:"status"`
	} `json:"plan"`
	Items []struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"items"`
	Progress float64 `json:"progress"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	resp, err := s.app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEscapFlow(t *testing.T) {
	s := newTestServer(t, false)

	code, _ := s.do(http.MethodGet, "/esgdd/escap/ENT-9", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := s.do(http.MethodPost, "/esgdd/escap/update-plan-details", map[string]any{
		"entityId": "ENT-9",
		"items": []map[string]any{
			{"issue": "Energy audit missing", "category": "environmental", "priority": "high"},
			{"issue": "POSH committee", "category": "social", "priority": "low", "status": "completed"},
		},
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	plan := decode[planData](t, env)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, 20.0, plan.Progress)

	itemID := plan.Items[0].ID
	code, env = s.do(http.MethodPost, "/esgdd/escap/update-plan-details", map[string]any{
		"entityId": "ENT-9",
		"items":    []map[string]any{{"id": itemID, "status": "accepted"}},
	})
	assert.Equal(t, http.StatusConflict, code, env.Message)

	code, _ = s.do(http.MethodPost, "/esgdd/escap/update-plan-details", map[string]any{
		"entityId": "ENT-9",
		"items":    []map[string]any{{"id": itemID, "status": "in_progress"}},
	})
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/esgdd/escap/ENT-9/items/"+strconv.FormatInt(itemID, 10)+"/history", nil)
	require.Equal(t, http.StatusOK, code)
	history := decode[[]struct {
		ToStatus  string `json:"toStatus"`
		Direction string `json:"direction"`
		Actor     string `json:"actor"`
	}](t, env)
	require.Len(t, history, 2)
	assert.Equal(t, "in_progress", history[1].ToStatus)
	assert.Equal(t, "progressed", history[1].Direction)
	assert.Equal(t, "auditor", history[1].Actor)

	code, _ = s.do(http.MethodPost, "/esgdd/escap/change-request", map[string]any{"entityId": "ENT-9", "comment": "tighten dates"})
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(http.MethodGet, "/esgdd/escap/ENT-9", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "change_requested", decode[planData](t, env).Plan.Status)

	code, _ = s.do(http.MethodPost, "/esgdd/escap/accept-plan", map[string]any{"entityId": "ENT-9"})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/esgdd/escap/accept-plan", map[string]any{"entityId": "ENT-9"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestGhgCollection(t *testing.T) {
	s := newTestServer(t, false)

	code, env := s.do(http.MethodPost, "/ghg-accounting/tpl-7/ghg-data-collection", map[string]any{
		"category": "business-travel", "period": "2026-01", "activity": "Flights",
		"quantity": "1000", "unit": "km", "emissionFactor": "0.15",
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(http.MethodPost, "/ghg-accounting/tpl-7/ghg-data-collection", map[string]any{
		"category": "business-travel", "period": "01-2026", "quantity": 1, "unit": "km", "emissionFactor": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = s.do(http.MethodPost, "/ghg-accounting/collect-ghg-data", map[string]any{
		"templateId": "tpl-7",
		"entries": []map[string]any{
			{"category": "employee-commuting", "period": "2026-02", "quantity": 200, "unit": "km", "emissionFactor": 0.1},
		},
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodGet, "/ghg-accounting/tpl-7/ghg-data-collection", nil)
	require.Equal(t, http.StatusOK, code)
	c := decode[struct {
		Entries []map[string]any `json:"entries"`
		Totals  []struct {
			Period    string `json:"period"`
			Emissions string `json:"emissions"`
		} `json:"totals"`
		Total string `json:"total"`
	}](t, env)
	assert.Len(t, c.Entries, 2)
	require.Len(t, c.Totals, 2)
	assert.Equal(t, "150", c.Totals[0].Emissions)
	assert.Equal(t, "170", c.Total)

	code, env = s.do(http.MethodGet, "/ghg-accounting/tpl-7/ghg-data-collection?period=2026-02", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[struct {
		Entries []map[string]any `json:"entries"`
	}](t, env).Entries, 1)
}

func multipartXLSX(t *testing.T, filename string, rows [][]interface{}) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}
	data, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestGhgUnits(t *testing.T) {
	s := newTestServer(t, false)

	code, env := s.do(http.MethodGet, "/ghg-accounting/units", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[struct {
		Categories []string `json:"categories"`
		Units      []struct {
			Unit string `json:"unit"`
			Base string `json:"base"`
		} `json:"units"`
	}](t, env)
	assert.Len(t, got.Categories, 15)
	assert.Contains(t, got.Units, struct {
		Unit string `json:"unit"`
		Base string `json:"base"`
	}{Unit: "mwh", Base: "kWh"})
}

func TestGhgImportExport(t *testing.T) {
	s := newTestServer(t, false)
	rows := [][]interface{}{
		{"Category", "Period", "Activity", "Quantity", "Unit", "Emission Factor"},
		{"capital-goods", "2026-03", "Servers", "4", "t", "0.5"},
		{"capital-goods", "2026-03", "Bad", "4", "lightyear", "0.5"},
	}

	body, ct := multipartXLSX(t, "capex.xlsx", rows)
	req := httptest.NewRequest(http.MethodPost, "/ghg-accounting/tpl-8/import", body)
	req.Header.Set("Content-Type", ct)
	resp, env := s.send(req)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	result := decode[struct {
		BatchID  string `json:"batchId"`
		Imported int    `json:"imported"`
		Errors   []struct {
			Row int `json:"row"`
		} `json:"errors"`
	}](t, env)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)

	body, ct = multipartXLSX(t, "capex.csv", rows)
	req = httptest.NewRequest(http.MethodPost, "/ghg-accounting/tpl-8/import", body)
	req.Header.Set("Content-Type", ct)
	resp, _ = s.send(req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/ghg-accounting/tpl-8/export", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	raw, err := s.app.Fiber.Test(req, -1)
	require.NoError(t, err)
	defer raw.Body.Close()
	require.Equal(t, http.StatusOK, raw.StatusCode)
	assert.Contains(t, raw.Header.Get("Content-Disposition"), "tpl-8-ghg.xlsx")

	data, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Servers", got[1][2])
}

func TestFeatureGate(t *testing.T) {
	s := newTestServer(t, true)

	code, _ := s.do(http.MethodGet, "/ghg-accounting/tpl-1/ghg-data-collection", nil)
	assert.Equal(t, http.StatusForbidden, code)

	require.NoError(t, s.app.Policies.SetFeature(FeatureGHG, true))
	code, _ = s.do(http.MethodGet, "/ghg-accounting/tpl-1/ghg-data-collection", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/esgdd/escap/ENT-1", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestOverdueJobRuns(t *testing.T) {
	s := newTestServer(t, false)
	code, _ := s.do(http.MethodPost, "/esgdd/escap/update-plan-details", map[string]any{
		"entityId": "ENT-OD",
		"items": []map[string]any{
			{"issue": "late", "category": "governance", "targetDate": "2020-01-01T00:00:00Z"},
		},
	})
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, s.app.Scheduler.RunNow(jobOverdue, func(ctx context.Context) error {
		_, err := s.app.Escap.MarkOverdue(ctx)
		return err
	}))

	code, env := s.do(http.MethodGet, "/esgdd/escap/ENT-OD", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "delayed", decode[planData](t, env).Items[0].Status)
}
