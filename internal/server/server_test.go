package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/field-forecast/pkg/constants"
	"go.uber.org/zap"
)

func uploadRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "project.yaml")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/forecast", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func readTestProject(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "test", "test_project.yaml"))
	if err != nil {
		t.Fatalf("failed to read test project: %v", err)
	}
	return data
}

func TestHandleForecastSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, uploadRequest(t, readTestProject(t)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Project != "Riverside Medical Office Building" {
		t.Errorf("unexpected project %q", resp.Project)
	}
	if len(resp.Reports) != 5 {
		t.Fatalf("expected 5 reports, got %d", len(resp.Reports))
	}
	if resp.CSV == "" || !strings.HasPrefix(resp.CSV, "code,") {
		t.Errorf("expected CSV data in response, got %q", resp.CSV)
	}
	if resp.Duration == "" {
		t.Error("expected duration in response")
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "panel-ros") {
		t.Errorf("expected panel-ros weight warning, got %v", resp.Warnings)
	}
	if resp.Totals.ECAC != 31000 || resp.Totals.PerformanceFactor == nil || resp.Totals.PFUnbounded {
		t.Errorf("unexpected totals %+v", resp.Totals)
	}
	if len(resp.Inventory) != 2 {
		t.Errorf("expected 2 inventory items, got %d", len(resp.Inventory))
	}

	lighting := resp.Reports[2]
	if lighting.Code != "26-51-00" || len(lighting.Components) != 3 || lighting.Rollup == nil {
		t.Fatalf("expected lighting rollup, got %+v", lighting)
	}
	if lighting.Rollup.DollarImpact != 1500 {
		t.Errorf("DollarImpact = %v, expected 1500", lighting.Rollup.DollarImpact)
	}
	if resp.Reports[0].ReverseRate == nil {
		t.Error("expected reverse-rate block for targetECAC")
	}
	if resp.Reports[4].Drawdown == nil {
		t.Error("drawdown should encode as an empty list, not null")
	}
}

func TestHandleForecastUnboundedPerformanceFactor(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "")

	project := []byte(`project:
  name: Unbounded
schemas:
  - id: s
    steps:
      - name: set
        weight: 1
workUnits:
  - code: "A"
    budgetedQty: 10
    budgetedHours: 20
    unitCost: 5
    schema: s
events:
  - code: "A"
    date: "2025-03-03"
    progress:
      set: 50
`)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, uploadRequest(t, project))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	report := raw["reports"].([]interface{})[0].(map[string]interface{})
	if report["performanceFactor"] != nil {
		t.Errorf("performanceFactor = %v, expected null", report["performanceFactor"])
	}
	if report["pfUnbounded"] != true {
		t.Errorf("pfUnbounded = %v, expected true", report["pfUnbounded"])
	}
}

func TestHandleForecastErrors(t *testing.T) {
	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
		limit   int64
		status  int
	}{
		{
			name: "Wrong method",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/api/forecast", nil)
			},
			status: http.StatusMethodNotAllowed,
		},
		{
			name: "Missing file",
			request: func(t *testing.T) *http.Request {
				body := &bytes.Buffer{}
				writer := multipart.NewWriter(body)
				_ = writer.WriteField("other", "value")
				_ = writer.Close()
				req := httptest.NewRequest(http.MethodPost, "/api/forecast", body)
				req.Header.Set("Content-Type", writer.FormDataContentType())
				return req
			},
			status: http.StatusBadRequest,
		},
		{
			name: "Invalid YAML",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, []byte("workUnits: [unterminated"))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "No work units",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, []byte("project:\n  name: empty\n"))
			},
			status: http.StatusBadRequest,
		},
		{
			name: "Oversized upload",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, readTestProject(t))
			},
			limit:  512,
			status: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := tt.limit
			if limit == 0 {
				limit = constants.DefaultMaxUploadSizeBytes
			}
			handler := NewHandler(zap.NewNop(), limit, "")

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, tt.request(t))
			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleReverseRate(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "")

	body := `{"budgetedQty":100,"budgetedHours":50,"actualQty":40,"actualHours":25,"unitCost":10,"targetECAC":1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/reverse-rate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp reverseRateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ECAC.ECAC != 1000 || resp.ECAC.CurrentRate != 1.6 {
		t.Errorf("unexpected ECAC %+v", resp.ECAC)
	}
	if resp.ReverseRate == nil {
		t.Fatal("expected reverse-rate block")
	}
	if resp.ReverseRate.RemainingHours != 30 || resp.ReverseRate.RequiredRate != 2 {
		t.Errorf("unexpected reverse rate %+v", resp.ReverseRate)
	}
}

func TestHandleReverseRateErrors(t *testing.T) {
	handler := NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "")

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"Wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"Malformed JSON", http.MethodPost, "{", http.StatusBadRequest},
		{"Zero budgeted quantity", http.MethodPost, `{"budgetedQty":0,"budgetedHours":10}`, http.StatusBadRequest},
		{"Negative hours", http.MethodPost, `{"budgetedQty":10,"budgetedHours":10,"actualHours":-1}`, http.StatusBadRequest},
		{"Negative target", http.MethodPost, `{"budgetedQty":10,"budgetedHours":10,"targetECAC":-5}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reverse-rate", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleVersion(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"", "dev"},
		{" 1.2.3 ", "1.2.3"},
	}

	for _, tt := range tests {
		handler := NewHandler(nil, 0, tt.version)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["version"] != tt.expected {
			t.Errorf("version = %q, expected %q", resp["version"], tt.expected)
		}
	}

	handler := NewHandler(zap.NewNop(), 0, "")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/version", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}
