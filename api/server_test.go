package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"wc-rating/core/rating"
	"wc-rating/internal/logging"
)

func newTestServer() *Server {
	return NewServer("test", rating.ManualPlan(), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer()
	for _, path := range []string{"/health", "/version"} {
		rr := do(t, s, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"test"`) {
			t.Errorf("%s: body missing version: %s", path, rr.Body.String())
		}
	}
}

func TestClassesAndPlan(t *testing.T) {
	s := newTestServer()

	rr := do(t, s, http.MethodGet, "/classes", "")
	var classes ClassesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &classes); err != nil {
		t.Fatalf("decode classes: %v", err)
	}
	if classes.Plan != rating.PresetManual || len(classes.Classes) != 3 {
		t.Errorf("classes = %+v", classes)
	}

	rr = do(t, s, http.MethodGet, "/plan", "")
	var plan PlanResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.ExpenseConstant.String() != "250" {
		t.Errorf("expense constant = %s", plan.ExpenseConstant)
	}
}

func TestQuote(t *testing.T) {
	s := newTestServer()
	rr := do(t, s, http.MethodPost, "/quote", `{"class_code":"8824","payroll":100000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}

	var resp QuoteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.QuoteID == "" || len(resp.InputHash) != 64 {
		t.Errorf("metadata = %q / %q", resp.QuoteID, resp.InputHash)
	}
	if resp.Result.NetPremium.String() != "3490.8775" {
		t.Errorf("net premium = %s", resp.Result.NetPremium)
	}
	if len(resp.Exhibit.Rows) == 0 {
		t.Error("expected exhibit rows")
	}
}

func TestQuoteErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"class_code":`, http.StatusBadRequest, "PARSING_ERROR"},
		{"unknown class", `{"class_code":"9999","payroll":1000}`, http.StatusBadRequest, "INVALID_CLASS_CODE"},
		{"missing payroll", `{"class_code":"8810"}`, http.StatusBadRequest, "INVALID_PAYROLL"},
		{"negative payroll", `{"class_code":"8810","payroll":-5}`, http.StatusBadRequest, "INVALID_PAYROLL"},
		{"factor out of range", `{"class_code":"8810","payroll":1000,"adjustments":{"schedule":0.9}}`, http.StatusBadRequest, "INVALID_ADJUSTMENT_RANGE"},
		{"unknown credit", `{"class_code":"8810","payroll":1000,"credits":{"nope":true}}`, http.StatusBadRequest, "INPUT_ERROR"},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/quote", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.status, rr.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Error.Code, tt.code)
			}
		})
	}
}

func TestQuoteReport(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		filename    string
		contains    string
	}{
		{"", "text/plain", "WC_Premium_Quote.txt", "NET PREMIUM DUE"},
		{"csv", "text/csv", "WC_Quote.csv", "Description,Amount / Factor"},
		{"markdown", "text/markdown", "WC_Quote.md", "**NET PREMIUM DUE**"},
		{"json", "application/json", "WC_Quote.json", `"net_premium"`},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			path := "/quote/report"
			if tt.format != "" {
				path += "?format=" + tt.format
			}
			rr := do(t, s, http.MethodPost, path, `{"class_code":"8810","payroll":50000}`)
			if rr.Code != http.StatusOK {
				t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("content type = %q", ct)
			}
			if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, tt.filename) {
				t.Errorf("content disposition = %q", cd)
			}
			if !strings.Contains(rr.Body.String(), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, rr.Body.String())
			}
		})
	}
}

func TestQuoteReportUnknownFormat(t *testing.T) {
	rr := do(t, newTestServer(), http.MethodPost, "/quote/report?format=pdf", `{"class_code":"8810","payroll":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "NOT_SUPPORTED") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestQuoteExplain(t *testing.T) {
	rr := do(t, newTestServer(), http.MethodPost, "/quote/explain", `{"class_code":"8824","payroll":"100,000"}`)
	// payroll must be a plain number or numeric string
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("formatted payroll should be rejected, got %d", rr.Code)
	}

	rr = do(t, newTestServer(), http.MethodPost, "/quote/explain", `{"class_code":"8824","payroll":"100000"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var resp ExplainResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Explanation.Steps) != 6 {
		t.Errorf("steps = %d", len(resp.Explanation.Steps))
	}
}

func TestRequestsAreLoggedAtServerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(logging.ForServer(logging.DefaultConfig()), &buf)
	s := NewServer("test", rating.ManualPlan(), log)

	do(t, s, http.MethodGet, "/classes", "")
	_ = log.Sync()

	out := buf.String()
	for _, want := range []string{"request", "GET", "/classes", "200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}
