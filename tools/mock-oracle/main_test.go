package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestFixture(t *testing.T) book {
	t.Helper()
	quotes, err := loadFixture(filepath.Join("testdata", "quotes.json"))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return quotes
}

func post(t *testing.T, h http.HandlerFunc, path, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()

	h(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestLoadFixture(t *testing.T) {
	quotes := loadTestFixture(t)
	if len(quotes) == 0 {
		t.Fatal("expected quotes in fixture")
	}
	if _, ok := quotes[bookKey("ak-47 | redline", "field-tested")]; !ok {
		t.Error("expected lookup to ignore case")
	}
}

func TestMarketHandler_Known(t *testing.T) {
	h := marketHandler(testLogger(), loadTestFixture(t))
	resp := post(t, h, "/oracle/market", `{"name":"AK-47 | Redline","wear":"Field-Tested"}`)

	if resp["second_lowest"] != float64(150) {
		t.Errorf("second_lowest=%v, want 150", resp["second_lowest"])
	}
	if _, ok := resp["fair_value"]; ok {
		t.Error("market route must not return fair_value")
	}
}

func TestMarketHandler_Unknown(t *testing.T) {
	h := marketHandler(testLogger(), loadTestFixture(t))
	resp := post(t, h, "/oracle/market", `{"name":"Nope","wear":"Factory New"}`)

	if resp["error"] != "item not found" {
		t.Errorf("error=%v, want item not found", resp["error"])
	}
}

func TestFullHandler_Known(t *testing.T) {
	h := fullHandler(testLogger(), loadTestFixture(t))
	resp := post(t, h, "/oracle", `{"name":"AWP | Asiimov","wear":"Battle-Scarred"}`)

	if resp["second_lowest"] != float64(90) {
		t.Errorf("second_lowest=%v, want 90", resp["second_lowest"])
	}
	if resp["historic"] != float64(70) {
		t.Errorf("historic=%v, want 70", resp["historic"])
	}
	if resp["fair_value"] != float64(80) {
		t.Errorf("fair_value=%v, want 80", resp["fair_value"])
	}
}

func TestFullHandler_InsufficientHistory(t *testing.T) {
	h := fullHandler(testLogger(), loadTestFixture(t))
	resp := post(t, h, "/oracle", `{"name":"AWP | Asiimov","wear":"Field-Tested"}`)

	if _, ok := resp["fair_value"]; ok {
		t.Errorf("fair_value=%v, want absent", resp["fair_value"])
	}
	if resp["second_lowest"] != float64(120) {
		t.Errorf("second_lowest=%v, want 120", resp["second_lowest"])
	}
}

func TestHandlers_BadRequest(t *testing.T) {
	h := marketHandler(testLogger(), loadTestFixture(t))
	req := httptest.NewRequest(http.MethodPost, "/oracle/market", strings.NewReader(`not json`))
	w := httptest.NewRecorder()

	h(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}
