package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var btc = tracker.SymbolInfo{Symbol: "BTC", Name: "Bitcoin", Kind: tracker.Crypto, Provider: "bitcoin"}

func TestHTTPSource_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		fmt.Fprint(w, `{"bitcoin":{"usd":64123.45}}`)
	}))
	defer srv.Close()

	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	src := &HTTPSource{
		Client: srv.Client(),
		Prices: Endpoint{
			URL:    srv.URL + "/simple/price?ids={id}&vs_currencies={currency_lower}",
			Path:   "$.{id}.{currency_lower}",
			Header: "x-api-key",
			Key:    "secret",
		},
		Now: func() time.Time { return now },
	}

	q, err := src.Quote(context.Background(), btc, "USD")
	require.NoError(t, err)
	assert.Equal(t, "price/BTC/USD", q.Key)
	assert.Equal(t, "64123.45 USD", q.Price.Amount().String()+" "+q.Price.Currency())
	assert.Equal(t, now, q.AsOf)
}

func TestHTTPSource_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/EUR", r.URL.Path)
		fmt.Fprint(w, `{"base":"EUR","rates":{"USD":"1.085","GBP":0.84}}`)
	}))
	defer srv.Close()

	src := &HTTPSource{Client: srv.Client(), Rates: Endpoint{URL: srv.URL + "/latest/{from}", Path: "$.rates.{to}"}}
	q, err := src.Rate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, "1.085", q.Price.Amount().String())
	assert.Equal(t, "USD", q.Price.Currency())

	_, err = src.Rate(context.Background(), "EUR", "JPY")
	assert.Error(t, err)
}

func TestHTTPSource_Retry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `[{"price":12.5}]`)
	}))
	defer srv.Close()

	src := &HTTPSource{
		Client:    srv.Client(),
		Prices:    Endpoint{URL: srv.URL, Path: "$[*].price"},
		Retries:   2,
		BaseDelay: time.Millisecond,
	}
	q, err := src.Quote(context.Background(), btc, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "12.5", q.Price.Amount().String())
	assert.EqualValues(t, 3, calls.Load())
}

func TestHTTPSource_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/text":
			fmt.Fprint(w, `{"price":"n/a"}`)
		default:
			fmt.Fprint(w, `not json`)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		e    Endpoint
	}{
		{"status", Endpoint{URL: srv.URL + "/missing", Path: "$.price"}},
		{"not a number", Endpoint{URL: srv.URL + "/text", Path: "$.price"}},
		{"not json", Endpoint{URL: srv.URL + "/other", Path: "$.price"}},
		{"no endpoint", Endpoint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &HTTPSource{Client: srv.Client(), Prices: tt.e}
			_, err := src.Quote(context.Background(), btc, "EUR")
			assert.Error(t, err)
		})
	}
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, backoff(time.Second, 0))
	assert.Equal(t, 4*time.Second, backoff(time.Second, 2))
	assert.Equal(t, time.Minute, backoff(time.Second, 10))
	assert.Equal(t, time.Minute, backoff(time.Second, 100))
}
