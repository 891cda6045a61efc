package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newMarketauxTestClient(serverURL string) *MarketauxClient {
	return NewMarketauxClient(MarketauxConfig{
		BaseURL:           serverURL,
		APIToken:          "test-token",
		RequestsPerMinute: 6000,
	}, zerolog.Nop())
}

func TestFetchNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("symbols") != "AAPL" {
			t.Errorf("unexpected symbols parameter: %s", q.Get("symbols"))
		}
		if q.Get("filter_entities") != "true" {
			t.Errorf("unexpected filter_entities parameter: %s", q.Get("filter_entities"))
		}
		if q.Get("language") != "en" {
			t.Errorf("unexpected language parameter: %s", q.Get("language"))
		}
		if q.Get("api_token") != "test-token" {
			t.Errorf("unexpected api_token parameter: %s", q.Get("api_token"))
		}
		w.Write([]byte(`{"data": [{"title": "Apple hits new high", "description": "Shares rallied.", "published_at": "2026-08-30T12:00:00Z", "url": "https://example.com/a"}]}`))
	}))
	defer server.Close()

	c := newMarketauxTestClient(server.URL)
	news, err := c.FetchNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}
	if len(news) != 1 {
		t.Fatalf("expected 1 article, got %d", len(news))
	}
	if news[0].Title != "Apple hits new high" || news[0].URL != "https://example.com/a" {
		t.Errorf("article mismatch: %+v", news[0])
	}
}

func TestFetchNewsDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"missing data field", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta": {"found": 0}}`))
		}},
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"malformed JSON", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[broken`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := newMarketauxTestClient(server.URL)
			news, err := c.FetchNews(context.Background(), "AAPL")
			if err != nil {
				t.Fatalf("expected degradation, got error: %v", err)
			}
			if len(news) != 0 {
				t.Errorf("expected empty slice, got %+v", news)
			}
		})
	}
}

func TestFetchNewsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newMarketauxTestClient(server.URL)
	news, err := c.FetchNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected degradation, got error: %v", err)
	}
	if len(news) != 0 {
		t.Errorf("expected empty slice, got %+v", news)
	}
}
