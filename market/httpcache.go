package market

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/tracker"
)

// dailyCache stores successful responses on disk, keyed by day, method and URL.
// Entries expire every day.
type dailyCache struct {
	dir   string
	base  http.RoundTripper
	today func() tracker.Date
}

func (c *dailyCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	key = fmt.Sprintf("trk-%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	slog.Debug("http request", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		slog.Warn("could not write http cache", "error", err)
	}
	return resp, nil
}

func (c *dailyCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put dumps the response to disk. DumpResponse leaves resp.Body readable.
func (c *dailyCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// DailyClient returns an http client whose successful responses are cached
// in dir until the end of the day. An empty dir uses the system temp dir.
func DailyClient(dir string) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	}
	return &http.Client{Transport: &dailyCache{dir: dir, base: http.DefaultTransport, today: tracker.Today}}
}
