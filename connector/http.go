package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPOptions configures JSON API requests.
type HTTPOptions struct {
	Client      *http.Client
	Token       string
	UserAgent   string
	Attempts    int
	RetryDelay  time.Duration
	MaxBodySize int64
}

// DefaultHTTPOptions returns options with a 30 second client timeout and three attempts.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		Client:      &http.Client{Timeout: 30 * time.Second},
		UserAgent:   "curator",
		Attempts:    3,
		RetryDelay:  500 * time.Millisecond,
		MaxBodySize: 32 << 20,
	}
}

// GetJSON fetches url and decodes the JSON body into out, retrying
// transient failures.
func GetJSON(ctx context.Context, opts HTTPOptions, url string, out any) error {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	return RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if opts.UserAgent != "" {
			req.Header.Set("User-Agent", opts.UserAgent)
		}
		if opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+opts.Token)
		}

		resp, err := opts.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			return httpStatusError(url, resp.StatusCode)
		}

		var body io.Reader = resp.Body
		if opts.MaxBodySize > 0 {
			body = io.LimitReader(resp.Body, opts.MaxBodySize)
		}
		if err := json.NewDecoder(body).Decode(out); err != nil {
			return Permanent(fmt.Errorf("decoding %s: %w", url, err))
		}
		return nil
	}, opts.Attempts, opts.RetryDelay)
}
