// Package remote talks to the hosted leaderboard backend: anonymous auth,
// object storage, the score submission function and the leaderboard table.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"champion-quiz/internal/domain"
	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

const (
	DefaultBucket         = "champions"
	DefaultSubmitFunction = "submit-score"
	DefaultCooldown       = 10 * time.Second
	maxErrorBody          = 4 << 10
)

// Config holds the backend coordinates.
type Config struct {
	BaseURL        string
	APIKey         string // public key, used when no session token is available
	Bucket         string
	SubmitFunction string
	Cooldown       time.Duration // wait before the single retry after a 429
	Timeout        time.Duration // zero means no timeout
}

// StatusError is a non-success response from the backend.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

// Client is constructed once and passed to whoever needs the backend.
type Client struct {
	cfg   Config
	doer  heimdall.Doer
	sleep func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

// WithDoer swaps the HTTP transport.
func WithDoer(d heimdall.Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithSleep replaces the cool-down wait, for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.SubmitFunction == "" {
		cfg.SubmitFunction = DefaultSubmitFunction
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	c := &Client{
		cfg: cfg,
		// Retries are decided per endpoint below, never by the transport.
		doer: httpclient.NewClient(
			httpclient.WithHTTPTimeout(cfg.Timeout),
			httpclient.WithRetryCount(0),
		),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SignInAnonymously creates an anonymous auth session.
func (c *Client) SignInAnonymously(ctx context.Context) (domain.AuthSession, error) {
	var out struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/v1/signup", strings.NewReader(`{}`), "")
	if err != nil {
		return domain.AuthSession{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.doJSON(req, &out); err != nil {
		return domain.AuthSession{}, fmt.Errorf("anonymous sign-in: %w", err)
	}
	return domain.AuthSession{UserID: out.User.ID, AccessToken: out.AccessToken}, nil
}

// Upload stores a PNG at path inside the bucket, overwriting any previous
// object, and returns its public URL.
func (c *Client) Upload(ctx context.Context, path string, png []byte, token string) (string, error) {
	path = strings.TrimLeft(path, "/")
	endpoint := c.cfg.BaseURL + "/storage/v1/object/" + url.PathEscape(c.cfg.Bucket) + "/" + escapePath(path)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(png), token)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("x-upsert", "true")
	req.Header.Set("Cache-Control", "max-age=60")

	var out struct {
		PublicURL string `json:"public_url"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if out.PublicURL != "" {
		return out.PublicURL, nil
	}
	return c.PublicURL(path), nil
}

// PublicURL is where an uploaded object can be read back.
func (c *Client) PublicURL(path string) string {
	return c.cfg.BaseURL + "/storage/v1/object/public/" + url.PathEscape(c.cfg.Bucket) + "/" + escapePath(strings.TrimLeft(path, "/"))
}

// FetchImage downloads an arbitrary image URL.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// SubmitScore posts a season result. A 429 is retried exactly once after
// the configured cool-down.
func (c *Client) SubmitScore(ctx context.Context, sub domain.Submission, token string) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	endpoint := c.cfg.BaseURL + "/functions/v1/" + url.PathEscape(c.cfg.SubmitFunction)

	for attempt := 0; ; attempt++ {
		req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body), token)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		err = c.doJSON(req, nil)
		var se *StatusError
		if !errors.As(err, &se) || se.Status != http.StatusTooManyRequests {
			if err != nil {
				return fmt.Errorf("submit score: %w", err)
			}
			return nil
		}
		if attempt > 0 {
			return fmt.Errorf("submit score: %w", domain.ErrRateLimited)
		}
		if err := c.sleep(ctx, c.cfg.Cooldown); err != nil {
			return err
		}
	}
}

// FetchLeaderboard reads up to limit rows ordered by total score.
func (c *Client) FetchLeaderboard(ctx context.Context, limit int, token string) ([]domain.LeaderboardRow, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "total_score.desc")
	q.Set("limit", strconv.Itoa(limit))
	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.BaseURL+"/rest/v1/leaderboard?"+q.Encode(), nil, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	var rows []domain.LeaderboardRow
	if err := c.doJSON(req, &rows); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return rows, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	bearer := token
	if bearer == "" {
		bearer = c.cfg.APIKey
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req, nil
}

// do runs the request. heimdall reports 5xx responses as an error alongside
// the response; the response wins so the body can be surfaced.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.doer.Do(req)
	if resp != nil {
		return resp, nil
	}
	if err == nil {
		err = errors.New("no response")
	}
	return nil, err
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// statusError prefers the backend's {"error": ...} message over the raw body.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(data))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Status: resp.StatusCode, Message: msg}
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
