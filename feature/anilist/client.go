package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aniport/core/ratelimit"
	"aniport/core/reconcile"

	"go.uber.org/zap"
)

// Client talks to the AniList GraphQL API.
//
// Every request goes through a ratelimit.Controller, so callers only ever see a final
// answer, a definitive error, or a context error. A Client with a token implements
// reconcile.Remote for the token's owner. It is not safe for concurrent use.
type Client struct {
	cfg     Config
	token   string
	http    *http.Client
	limiter *ratelimit.Controller
	logger  *zap.Logger

	viewer *Viewer
	tags   map[reconcile.Kind][]string
}

// Viewer is the account an access token belongs to.
type Viewer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewClient creates a client. token may be empty for public queries.
// A nil limiter gets one built from cfg.
func NewClient(cfg Config, token string, limiter *ratelimit.Controller, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewLimiter(cfg, logger)
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		cfg:     cfg,
		token:   token,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: limiter,
		logger:  logger,
	}
}

// NewLimiter builds the rate-limit controller for one run from cfg.
func NewLimiter(cfg Config, logger *zap.Logger) *ratelimit.Controller {
	return ratelimit.New(logger,
		ratelimit.WithDefaultWait(cfg.RateLimitWait),
		ratelimit.WithRequestsPerMinute(cfg.RequestsPerMinute),
	)
}

// RateLimit returns the rate-limit bookkeeping of this client.
func (c *Client) RateLimit() ratelimit.Stats {
	return c.limiter.Stats()
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// query runs a GraphQL operation and decodes its data into out.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return err
	}
	return c.limiter.Do(ctx, func(ctx context.Context) error {
		return c.send(ctx, payload, out)
	})
}

func (c *Client) send(ctx context.Context, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("anilist request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read anilist response: %w", err)
	}

	if limited := ratelimit.Detect(resp.StatusCode, resp.Header, body); limited != nil {
		return limited
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode == http.StatusUnauthorized || invalidToken(env.Errors) {
		return fmt.Errorf("%w: %s", ErrInvalidToken, messages(resp.StatusCode, env.Errors))
	}
	if resp.StatusCode != http.StatusOK || len(env.Errors) > 0 {
		return &APIError{Status: resp.StatusCode, Messages: messageList(env.Errors)}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode anilist response: %w", decodeErr)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode anilist data: %w", err)
	}
	return nil
}

func invalidToken(errs []gqlError) bool {
	for _, e := range errs {
		msg := strings.ToLower(e.Message)
		if e.Status == http.StatusUnauthorized || strings.Contains(msg, "invalid token") || strings.Contains(msg, "unauthorized") {
			return true
		}
	}
	return false
}

func messageList(errs []gqlError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func messages(status int, errs []gqlError) string {
	if len(errs) == 0 {
		return fmt.Sprintf("HTTP %d", status)
	}
	return strings.Join(messageList(errs), "; ")
}

// Viewer returns the owner of the client's token. The answer is cached.
func (c *Client) Viewer(ctx context.Context) (*Viewer, error) {
	if c.viewer != nil {
		return c.viewer, nil
	}
	if c.token == "" {
		return nil, fmt.Errorf("%w: no token", ErrInvalidToken)
	}

	var data struct {
		Viewer *Viewer `json:"Viewer"`
	}
	if err := c.query(ctx, viewerQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Viewer == nil || data.Viewer.ID == 0 {
		return nil, fmt.Errorf("%w: token has no viewer", ErrInvalidToken)
	}
	c.viewer = data.Viewer
	return c.viewer, nil
}

// UserID resolves a user name to its id.
func (c *Client) UserID(ctx context.Context, name string) (int, error) {
	var data struct {
		User *Viewer `json:"User"`
	}
	err := c.query(ctx, userQuery, map[string]any{"name": name}, &data)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return 0, fmt.Errorf("%w: %s", ErrUserNotFound, name)
		}
		return 0, err
	}
	if data.User == nil || data.User.ID == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	return data.User.ID, nil
}
