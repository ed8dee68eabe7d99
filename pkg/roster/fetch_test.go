package roster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/errors"
)

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(nil, nil)
	data, err := f.Fetch(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "x" {
		t.Errorf("Fetch = %q, want %q", data, "x")
	}

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), false)
	if !errors.Is(err, errors.ErrCodeRosterNotFound) {
		t.Errorf("missing file error = %v, want ROSTER_NOT_FOUND", err)
	}
}

func TestFetchURLCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent")
		}
		w.Write([]byte("Employee ID,Supervisor ID,Name,Role\n"))
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(c, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(ctx, srv.URL+"/roster.csv", false); err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (cached)", got)
	}

	if _, err := f.Fetch(ctx, srv.URL+"/roster.csv", true); err != nil {
		t.Fatalf("Fetch refresh: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits after refresh = %d, want 2", got)
	}
}

func TestFetchURLStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewFetcher(nil, nil)
	ctx := context.Background()

	if _, err := f.Fetch(ctx, srv.URL+"/missing", false); !errors.Is(err, errors.ErrCodeRosterNotFound) {
		t.Errorf("404 error = %v, want ROSTER_NOT_FOUND", err)
	}
	if _, err := f.Fetch(ctx, srv.URL+"/broken", false); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("500 error = %v, want NETWORK_ERROR", err)
	}
}

func TestFetchURLTooLarge(t *testing.T) {
	body := "Employee ID,Supervisor ID,Name,Role\nE1,,Alice,CEO\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(c, nil)
	f.MaxBytes = int64(len(body)) - 1
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/roster.csv", false)
	if !errors.Is(err, errors.ErrCodeInvalidRoster) {
		t.Fatalf("oversized body error = %v, want INVALID_ROSTER", err)
	}
	if data != nil {
		t.Errorf("oversized body returned %d bytes, want none", len(data))
	}
	if _, hit, _ := c.Get(ctx, f.Keyer.RosterKey(srv.URL+"/roster.csv")); hit {
		t.Error("truncated roster was cached")
	}

	f.MaxBytes = int64(len(body))
	if data, err := f.Fetch(ctx, srv.URL+"/roster.csv", false); err != nil || string(data) != body {
		t.Errorf("body at the limit = %q, %v; want full body", data, err)
	}
}

func TestFetchInvalidSource(t *testing.T) {
	f := NewFetcher(nil, nil)
	if _, err := f.Fetch(context.Background(), "", false); !errors.Is(err, errors.ErrCodeInvalidSource) {
		t.Errorf("empty source error = %v, want INVALID_SOURCE", err)
	}
}
