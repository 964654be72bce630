package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCryptoPanicFetchNews(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("auth_token"); got != "test-key" {
			t.Fatalf("expected auth_token test-key, got %q", got)
		}
		if got := r.URL.Query().Get("currencies"); got != "BITCOIN" {
			t.Fatalf("expected currencies BITCOIN, got %q", got)
		}
		if got := r.URL.Query().Get("kind"); got != "news" {
			t.Fatalf("expected kind news, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"title":"A","url":"https://a","source":{"title":"SrcA"}},
			{"title":"B","url":"https://b","source":{"title":"SrcB"}}
		]}`))
	}))
	defer ts.Close()

	p := NewCryptoPanicProvider(ts.URL, "test-key")
	items, err := p.FetchNews(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "A" || items[0].URL != "https://a" || items[0].Source != "SrcA" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
}

func TestCryptoPanicFetchNews_TruncatesToThree(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"title":"1","url":"u1","source":{"title":"s1"}},
			{"title":"2","url":"u2","source":{"title":"s2"}},
			{"title":"3","url":"u3","source":{"title":"s3"}},
			{"title":"4","url":"u4","source":{"title":"s4"}}
		]}`))
	}))
	defer ts.Close()

	p := NewCryptoPanicProvider(ts.URL, "test-key")
	items, err := p.FetchNews(context.Background(), "eth")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[2].Title != "3" {
		t.Fatalf("expected upstream order preserved, got %+v", items)
	}
}

func TestCryptoPanicFetchNews_FillsMissingFields(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"source":{}}]}`))
	}))
	defer ts.Close()

	p := NewCryptoPanicProvider(ts.URL, "test-key")
	items, err := p.FetchNews(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Title != "No title" || items[0].URL != "#" || items[0].Source != "Unknown" {
		t.Fatalf("unexpected defaults: %+v", items[0])
	}
}

func TestCryptoPanicFetchNews_Non200(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	p := NewCryptoPanicProvider(ts.URL, "test-key")
	_, err := p.FetchNews(context.Background(), "bitcoin")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
