package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		header     http.Header
		body       string
		wantSignal bool
		wantAfter  time.Duration
	}{
		{
			name:       "429 with retry-after seconds",
			status:     http.StatusTooManyRequests,
			header:     http.Header{"Retry-After": []string{"42"}},
			wantSignal: true,
			wantAfter:  42 * time.Second,
		},
		{
			name:       "429 without hint",
			status:     http.StatusTooManyRequests,
			wantSignal: true,
		},
		{
			name:       "429 with garbage hint",
			status:     http.StatusTooManyRequests,
			header:     http.Header{"Retry-After": []string{"soon"}},
			wantSignal: true,
		},
		{
			name:       "graphql rate limit message",
			status:     http.StatusBadRequest,
			body:       `{"errors":[{"message":"Too Many Requests. Rate Limit exceeded."}]}`,
			wantSignal: true,
		},
		{
			name:       "graphql status 429",
			status:     http.StatusOK,
			body:       `{"errors":[{"message":"Too Many Requests.","status":429}]}`,
			wantSignal: true,
		},
		{
			name:   "validation error",
			status: http.StatusBadRequest,
			body:   `{"errors":[{"message":"Variable $mediaId got invalid value"}]}`,
		},
		{
			name:   "server error with html body",
			status: http.StatusInternalServerError,
			body:   `<html>oops</html>`,
		},
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"data":{"SaveMediaListEntry":{"id":1}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.status, tt.header, []byte(tt.body))
			if !tt.wantSignal {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantAfter, got.RetryAfter)
		})
	}
}

func TestDetect_RetryAfterDate(t *testing.T) {
	at := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	got := Detect(http.StatusTooManyRequests, http.Header{"Retry-After": []string{at}}, nil)

	require.NotNil(t, got)
	assert.Greater(t, got.RetryAfter, 60*time.Second)
}
