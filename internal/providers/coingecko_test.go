package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCoinGeckoFetchSnapshot(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Fatalf("expected vs_currency usd, got %q", got)
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin" {
			t.Fatalf("expected ids bitcoin, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"current_price":50000.0,"market_cap":900000000000.0,"market_cap_rank":1}]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL)
	snapshot, err := p.FetchSnapshot(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if snapshot.Price != 50000.0 || snapshot.MarketCap != 900000000000.0 || snapshot.Rank != 1 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if snapshot.Provider != "coingecko" {
		t.Fatalf("unexpected provider name: %q", snapshot.Provider)
	}
}

func TestCoinGeckoFetchSnapshot_EmptyResultSet(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL)
	snapshot, err := p.FetchSnapshot(context.Background(), "nonexistentcoin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot != nil {
		t.Fatalf("expected absent snapshot, got %+v", snapshot)
	}
}

func TestCoinGeckoFetchSnapshot_NullPriceIsAbsent(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"current_price":null,"market_cap":1.0,"market_cap_rank":2}]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL)
	snapshot, err := p.FetchSnapshot(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot != nil {
		t.Fatalf("expected absent snapshot, got %+v", snapshot)
	}
}

func TestCoinGeckoFetchSnapshot_EmptyTokenSkipsRequest(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty token")
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL)
	snapshot, err := p.FetchSnapshot(context.Background(), "  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot != nil {
		t.Fatalf("expected absent snapshot, got %+v", snapshot)
	}
}

func TestCoinGeckoFetchSnapshot_Non200(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL)
	_, err := p.FetchSnapshot(context.Background(), "bitcoin")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}
