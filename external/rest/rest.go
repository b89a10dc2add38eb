// Package rest is the shared GET/JSON transport for the upstream API
// clients. It surfaces every non-2xx response as a StatusError so callers
// can tell transient failures from permanent ones; retry policy lives with
// the caller, not here.
package rest

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const maxBodyBytes = 6 << 20

// StatusError is a non-2xx upstream response with the status code intact.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status=%d body=%s", e.Code, e.Body)
}

// Do issues a GET and returns the raw body. query may be nil.
func Do(ctx context.Context, client *http.Client, rawURL string, query map[string]string) ([]byte, error) {
	fullURL := rawURL
	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, value)
		}
		fullURL += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("cache-control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)}
	}
	return raw, nil
}

// DecodeJSON unmarshals an upstream payload.
func DecodeJSON(raw []byte, target any) error {
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode upstream payload")
	}
	return nil
}

// IsNotFound reports a permanent missing-resource failure.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	if crerr.As(err, &statusErr) {
		return statusErr.Code == http.StatusNotFound
	}
	return false
}

// IsRateLimited reports the status codes the upstreams use for throttling.
// Both providers are known to answer 500/504 under load, not just 429.
func IsRateLimited(err error) bool {
	var statusErr *StatusError
	if !crerr.As(err, &statusErr) {
		return false
	}
	switch statusErr.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsTransient reports failures worth retrying on a later pass: throttling,
// timeouts, 5xx, and plain network errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if crerr.As(err, &statusErr) {
		return statusErr.Code == http.StatusRequestTimeout || statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}
	var netErr net.Error
	return crerr.As(err, &netErr)
}

func abbreviateBody(body []byte) string {
	const limit = 256
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
