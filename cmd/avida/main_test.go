package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	avida "github.com/kelvinofficial/avida-sub002"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if err := run([]string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stdout.String(), avida.Name) {
		t.Errorf("Version output missing name: %s", stdout.String())
	}
	if !strings.Contains(stdout.String(), version) {
		t.Errorf("Version output missing version: %s", stdout.String())
	}
}

func TestRun_UnknownCacheBackend(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run([]string{"--cache", "chalkboard"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unknown cache backend") {
		t.Errorf("Expected unknown backend error, got %v", err)
	}
}

func TestRun_MissingAPIURL(t *testing.T) {
	t.Setenv("AVIDA_API_URL", "")
	var stdout, stderr bytes.Buffer

	err := run([]string{"--cache", "memory"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "API URL required") {
		t.Errorf("Expected missing API URL error, got %v", err)
	}
}

func TestRun_InvalidFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if err := run([]string{"--no-such-flag"}, &stdout, &stderr); err == nil {
		t.Error("Expected flag parse error")
	}
}

func TestRun_FetchAndRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("category"); got != "vehicles" {
			t.Errorf("category = %q", got)
		}
		_ = json.NewEncoder(w).Encode(avida.FeedPage{
			Listings: []avida.Listing{
				{ID: "a1", Title: "Toyota Corolla", Price: 1550000, Currency: "tzs", Location: "Arusha"},
			},
			NextCursor: "c2",
		})
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"--cache", "none",
		"--api-url", server.URL,
		"--category", "vehicles",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Toyota Corolla") {
		t.Errorf("Listing missing from output: %s", out)
	}
	if !strings.Contains(out, "TZS 15500.00") {
		t.Errorf("Price not formatted: %s", out)
	}
	if !strings.Contains(out, "--cursor c2") {
		t.Errorf("Cursor hint missing: %s", out)
	}
	if !strings.Contains(stderr.String(), "origin: network") {
		t.Errorf("Origin note missing: %s", stderr.String())
	}
}

func TestRun_JSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(avida.FeedPage{
			Listings: []avida.Listing{{ID: "a1", Title: "Sofa"}},
		})
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--cache", "none", "--api-url", server.URL, "--json", "--quiet"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var result struct {
		Origin    string `json:"Origin"`
		ElapsedMS *int64 `json:"elapsed_ms"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, stdout.String())
	}
	if result.Origin != "network" {
		t.Errorf("Origin = %q", result.Origin)
	}
	if result.ElapsedMS == nil {
		t.Error("elapsed_ms missing")
	}
}

func TestRun_FileCacheRoundTrip(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(avida.FeedPage{
			Listings: []avida.Listing{{ID: "a1", Title: "Cached Corolla"}},
		})
	}))
	defer server.Close()

	t.Setenv("AVIDA_CACHE_DIR", t.TempDir())
	args := []string{"--cache", "file", "--api-url", server.URL, "--category", "vehicles", "--quiet"}

	var out1, err1 bytes.Buffer
	if err := run(args, &out1, &err1); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// Second run inside the stale window renders from the cache
	var out2, err2 bytes.Buffer
	if err := run(args, &out2, &err2); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected 1 network fetch across runs, got %d", calls)
	}
	if !strings.Contains(out2.String(), "Cached Corolla") {
		t.Errorf("Cached listing missing: %s", out2.String())
	}
}

func TestRun_ExportImport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(avida.FeedPage{
			Listings: []avida.Listing{{ID: "a1", Title: "Snapshot"}},
		})
	}))
	defer server.Close()

	dir1 := t.TempDir()
	t.Setenv("AVIDA_CACHE_DIR", dir1)

	// Warm the cache
	var buf bytes.Buffer
	if err := run([]string{"--cache", "file", "--api-url", server.URL, "--quiet"}, &buf, &buf); err != nil {
		t.Fatalf("warmup run failed: %v", err)
	}

	snapshot := filepath.Join(t.TempDir(), "snapshot.json")
	var exportOut bytes.Buffer
	if err := run([]string{"--cache", "file", "--export", snapshot}, &exportOut, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(exportOut.String(), "cache exported") {
		t.Errorf("Export output: %s", exportOut.String())
	}

	// Import into a fresh cache dir
	t.Setenv("AVIDA_CACHE_DIR", t.TempDir())
	var importOut bytes.Buffer
	if err := run([]string{"--cache", "file", "--import", snapshot}, &importOut, &buf); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(importOut.String(), "imported 1 entries") {
		t.Errorf("Import output: %s", importOut.String())
	}
}

func TestRun_ExportNeedsCache(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--cache", "none", "--export", "x.json"}, &buf, &buf)
	if err == nil || !strings.Contains(err.Error(), "needs a cache backend") {
		t.Errorf("Expected cache backend error, got %v", err)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		minor    int64
		currency string
		want     string
	}{
		{1550000, "tzs", "TZS 15500.00"},
		{99, "usd", "USD 0.99"},
		{100, "", "? 1.00"},
		{0, "eur", "EUR 0.00"},
	}

	for _, tt := range tests {
		if got := formatPrice(tt.minor, tt.currency); got != tt.want {
			t.Errorf("formatPrice(%d, %q) = %q, want %q", tt.minor, tt.currency, got, tt.want)
		}
	}
}
