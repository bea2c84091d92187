package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tracker"
	"github.com/shopspring/decimal"
)

// Endpoint describes how to read a number from a JSON web API.
//
// URL and Path are templates, the placeholders {id}, {symbol}, {currency},
// {from} and {to} are replaced before the call, and the *_lower variants
// with their lower case values. Path is a JSONPath expression locating the
// price in the response.
type Endpoint struct {
	URL  string
	Path string
	// Header and Key, when set, send the API key in this header.
	Header string
	Key    string
}

// HTTPSource reads prices and rates from web APIs.
type HTTPSource struct {
	Client *http.Client
	Prices Endpoint
	Rates  Endpoint
	// Retries is the number of additional attempts after a failure.
	Retries int
	// BaseDelay is the first backoff delay, doubled at each retry.
	BaseDelay time.Duration
	Now       func() time.Time
}

// Quote implements Source.
func (s *HTTPSource) Quote(ctx context.Context, info tracker.SymbolInfo, currency string) (Quote, error) {
	if s.Prices.URL == "" {
		return Quote{}, fmt.Errorf("no price endpoint configured")
	}
	r := replacer(map[string]string{
		"id":       info.Provider,
		"symbol":   string(info.Symbol),
		"currency": currency,
	})
	v, err := s.get(ctx, s.Prices, r)
	if err != nil {
		return Quote{}, fmt.Errorf("could not get %s price: %w", info.Symbol, err)
	}
	return Quote{Key: priceKey(info.Symbol, currency), Price: tracker.M(v, currency), AsOf: s.now()}, nil
}

// Rate implements RateSource.
func (s *HTTPSource) Rate(ctx context.Context, from, to string) (Quote, error) {
	if s.Rates.URL == "" {
		return Quote{}, fmt.Errorf("no exchange rate endpoint configured")
	}
	r := replacer(map[string]string{"from": from, "to": to})
	v, err := s.get(ctx, s.Rates, r)
	if err != nil {
		return Quote{}, fmt.Errorf("could not get %s/%s rate: %w", from, to, err)
	}
	return Quote{Key: rateKey(from, to), Price: tracker.M(v, to), AsOf: s.now()}, nil
}

func (s *HTTPSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func replacer(values map[string]string) *strings.Replacer {
	var oldnew []string
	for k, v := range values {
		oldnew = append(oldnew, "{"+k+"}", v, "{"+k+"_lower}", strings.ToLower(v))
	}
	return strings.NewReplacer(oldnew...)
}

// get calls the endpoint, retrying with an exponential backoff.
func (s *HTTPSource) get(ctx context.Context, e Endpoint, r *strings.Replacer) (decimal.Decimal, error) {
	addr := r.Replace(e.URL)
	path := r.Replace(e.Path)

	var err error
	for attempt := 0; ; attempt++ {
		var v decimal.Decimal
		v, err = s.getOnce(ctx, e, addr, path)
		if err == nil || attempt >= s.Retries {
			return v, err
		}
		delay := backoff(s.BaseDelay, attempt)
		slog.Warn("price request failed, retrying", "url", e.URL, "attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (s *HTTPSource) getOnce(ctx context.Context, e Endpoint, addr, path string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")
	if e.Header != "" && e.Key != "" {
		req.Header.Set(e.Header, e.Key)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("GET %s%s: %s", req.URL.Host, req.URL.Path, resp.Status)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return decimal.Zero, fmt.Errorf("invalid JSON response: %w", err)
	}
	return extract(jobj, path)
}

// extract evaluates path on jobj and converts the result into a decimal.
func extract(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not evaluate %q: %w", path, err)
	}
	// jsonpath returns a list for wildcard and slice expressions
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return decimal.Zero, fmt.Errorf("no value at %q", path)
		}
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("value at %q is not a number: %q", path, v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("value at %q is not a number: %v", path, jval)
	}
}

const maxDelay = time.Minute

// backoff returns base * 2^attempt, capped to a minute.
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	if attempt > 16 {
		return maxDelay
	}
	d := base * time.Duration(1<<attempt)
	if d > maxDelay {
		return maxDelay
	}
	return d
}
