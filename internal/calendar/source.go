package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrEmptySource is returned when no file path or URL is given.
var ErrEmptySource = errors.New("calendar source is empty")

const maxFeedBytes = 10 << 20

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Load reads an ICS payload from a local file or an http(s) URL.
func Load(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrEmptySource
	}
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return fetch(ctx, src)
	}
	if strings.HasPrefix(lower, "webcal://") {
		return fetch(ctx, "https://"+src[len("webcal://"):])
	}
	body, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading calendar file: %w", err)
	}
	return body, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching calendar: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("reading calendar body: %w", err)
	}
	return body, nil
}
