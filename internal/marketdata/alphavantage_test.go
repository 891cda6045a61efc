package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newAlphaVantageTestClient(serverURL string) *AlphaVantageClient {
	return NewAlphaVantageClient(AlphaVantageConfig{
		BaseURL:           serverURL,
		APIKey:            "test-key",
		RequestsPerMinute: 6000,
	}, zerolog.Nop())
}

func TestFetchOverviewWithShares(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"function": r.URL.Query().Get("function"),
			"symbol":   r.URL.Query().Get("symbol"),
			"apikey":   r.URL.Query().Get("apikey"),
		}
		w.Write([]byte(`{"Symbol": "AAPL", "Name": "Apple Inc", "SharesOutstanding": "15000000000"}`))
	}))
	defer server.Close()

	c := newAlphaVantageTestClient(server.URL)
	overview, err := c.FetchOverview(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchOverview failed: %v", err)
	}

	if !overview.HasShares {
		t.Fatal("expected HasShares to be true")
	}
	if overview.Shares != 15000000000 {
		t.Errorf("expected 15000000000 shares, got %d", overview.Shares)
	}
	if overview.Fields["Name"] != "Apple Inc" {
		t.Errorf("expected raw fields to be preserved, got %+v", overview.Fields)
	}
	if gotQuery["function"] != "OVERVIEW" || gotQuery["symbol"] != "AAPL" || gotQuery["apikey"] != "test-key" {
		t.Errorf("unexpected query parameters: %+v", gotQuery)
	}
}

func TestFetchOverviewMissingSharesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "API call frequency exceeded"}`))
	}))
	defer server.Close()

	c := newAlphaVantageTestClient(server.URL)
	overview, err := c.FetchOverview(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchOverview failed: %v", err)
	}

	if overview.HasShares {
		t.Error("expected HasShares to be false")
	}
	// Raw body must still be available for diagnostic display
	if overview.Raw == "" {
		t.Error("expected raw response to be preserved")
	}
	if overview.Fields["Note"] != "API call frequency exceeded" {
		t.Errorf("expected parsed fields on logical miss, got %+v", overview.Fields)
	}
}

func TestFetchOverviewNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream error"))
	}))
	defer server.Close()

	c := newAlphaVantageTestClient(server.URL)
	overview, err := c.FetchOverview(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchOverview failed: %v", err)
	}

	if overview.HasShares {
		t.Error("expected HasShares to be false on non-200")
	}
	if overview.Raw != "upstream error" {
		t.Errorf("expected raw response text, got %q", overview.Raw)
	}
}

func TestFetchOverviewTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	c := newAlphaVantageTestClient(server.URL)
	overview, err := c.FetchOverview(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected degradation, got error: %v", err)
	}
	if overview.HasShares {
		t.Error("expected HasShares to be false on transport failure")
	}
	if overview.Raw == "" {
		t.Error("expected diagnostic text on transport failure")
	}
}

func TestFetchInsiderTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "INSIDER_TRANSACTIONS" {
			t.Errorf("unexpected function parameter: %s", got)
		}
		w.Write([]byte(`{"transactions": [{"transactionDate": "2026-08-12", "transactionType": "SELL", "shares": "12000"}]}`))
	}))
	defer server.Close()

	c := newAlphaVantageTestClient(server.URL)
	txns, err := c.FetchInsiderTransactions(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchInsiderTransactions failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].TransactionType != "SELL" || txns[0].Shares != "12000" {
		t.Errorf("transaction mismatch: %+v", txns[0])
	}
}

func TestFetchInsiderTransactionsDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"missing field", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}},
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed JSON", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := newAlphaVantageTestClient(server.URL)
			txns, err := c.FetchInsiderTransactions(context.Background(), "AAPL")
			if err != nil {
				t.Fatalf("expected degradation, got error: %v", err)
			}
			if len(txns) != 0 {
				t.Errorf("expected empty slice, got %+v", txns)
			}
		})
	}
}

func TestFetchCorporateActions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "CORPORATE_ACTIONS" {
			t.Errorf("unexpected function parameter: %s", got)
		}
		w.Write([]byte(`{"actions": [{"reportDate": "2026-07-01", "corporateAction": "DIVIDEND", "description": "Quarterly dividend"}]}`))
	}))
	defer server.Close()

	c := newAlphaVantageTestClient(server.URL)
	actions, err := c.FetchCorporateActions(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchCorporateActions failed: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != "DIVIDEND" {
		t.Errorf("actions mismatch: %+v", actions)
	}
}

func TestFetchOverviewContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newAlphaVantageTestClient(server.URL)
	if _, err := c.FetchOverview(ctx, "AAPL"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestParseShares(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{"15000000000", 15000000000, true},
		{" 42 ", 42, true},
		{float64(100), 100, true},
		{"not a number", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}

	for _, tc := range cases {
		got, ok := parseShares(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("parseShares(%v) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
