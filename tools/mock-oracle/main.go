// Package main implements a mock pricing oracle for local development.
// It answers the market and full oracle routes from a JSON fixture so the
// arbitrage helper can run without the real pricing service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// quote is one fixture entry. A missing fair value simulates an item with
// too little history for the full route.
type quote struct {
	Name         string   `json:"name"`
	Wear         string   `json:"wear"`
	SecondLowest *float64 `json:"second_lowest"`
	Historic     *float64 `json:"historic,omitempty"`
	FairValue    *float64 `json:"fair_value,omitempty"`
}

type fullResponse struct {
	SecondLowest *float64 `json:"second_lowest"`
	Historic     *float64 `json:"historic,omitempty"`
	FairValue    *float64 `json:"fair_value,omitempty"`
}

type oracleRequest struct {
	Name string `json:"name"`
	Wear string `json:"wear"`
}

type book map[string]quote

func bookKey(name, wear string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(wear))
}

func main() {
	port := flag.Int("port", 5000, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-oracle/testdata/quotes.json", "path to quotes fixture")
	latency := flag.Duration("latency", 0, "delay added to every answer")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	quotes, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(quotes))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oracle/market", marketHandler(logger, quotes))
	mux.HandleFunc("POST /oracle", fullHandler(logger, quotes))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock oracle", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, withLatency(*latency, mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + *latency,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (book, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var quotes []quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	b := make(book, len(quotes))
	for _, q := range quotes {
		b[bookKey(q.Name, q.Wear)] = q
	}
	return b, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func withLatency(d time.Duration, next http.Handler) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
		}
	})
}

// lookup decodes the request and finds its quote. It writes the error
// reply itself and returns false when there is nothing to quote.
func lookup(logger *slog.Logger, quotes book, w http.ResponseWriter, r *http.Request) (quote, bool) {
	var req oracleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and wear are required"})
		return quote{}, false
	}

	q, ok := quotes[bookKey(req.Name, req.Wear)]
	if !ok || q.SecondLowest == nil {
		logger.Info("no quote", "name", req.Name, "wear", req.Wear)
		writeJSON(w, http.StatusOK, map[string]string{"error": "item not found"})
		return quote{}, false
	}
	return q, true
}

func marketHandler(logger *slog.Logger, quotes book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := lookup(logger, quotes, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"second_lowest": *q.SecondLowest})
		logger.Info("market quote", "name", q.Name, "wear", q.Wear)
	}
}

func fullHandler(logger *slog.Logger, quotes book) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := lookup(logger, quotes, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, fullResponse{
			SecondLowest: q.SecondLowest,
			Historic:     q.Historic,
			FairValue:    q.FairValue,
		})
		logger.Info("full quote", "name", q.Name, "wear", q.Wear, "fair_value", q.FairValue != nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}
