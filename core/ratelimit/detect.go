package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type graphQLErrors struct {
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

// Detect inspects an HTTP response and returns a *LimitedError when it is a
// rate-limit signal: status 429, or a GraphQL error whose message mentions a rate limit.
// It returns nil for every other response.
func Detect(status int, header http.Header, body []byte) *LimitedError {
	hint := retryAfter(header)

	if status == http.StatusTooManyRequests {
		return &LimitedError{RetryAfter: hint, Reason: "http 429"}
	}

	var payload graphQLErrors
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return nil
	}
	for _, e := range payload.Errors {
		if e.Status == http.StatusTooManyRequests || strings.Contains(strings.ToLower(e.Message), "rate limit") {
			return &LimitedError{RetryAfter: hint, Reason: e.Message}
		}
	}
	return nil
}

// retryAfter parses Retry-After as seconds or an HTTP date.
func retryAfter(header http.Header) time.Duration {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
