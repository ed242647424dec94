package slackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/modalstate/internal/logging"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/urls"
	"github.com/muurk/modalstate/internal/version"
	"github.com/muurk/modalstate/internal/view"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for apps.connections.open
	DefaultMaxRetries = 5

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second
)

// Slack error codes with special handling
const (
	codeHashConflict = "hash_conflict"
	codeRateLimited  = "ratelimited"
)

var authCodes = map[string]bool{
	"not_authed":             true,
	"invalid_auth":           true,
	"account_inactive":       true,
	"token_revoked":          true,
	"token_expired":          true,
	"missing_scope":          true,
	"not_allowed_token_type": true,
}

// Client is a Slack Web API client
type Client struct {
	// BaseURL is the Web API base URL, ending in a slash
	BaseURL string

	// BotToken (xoxb-) authenticates view calls
	BotToken string

	// AppToken (xapp-) authenticates apps.connections.open
	AppToken string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for apps.connections.open
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration
}

// NewClient creates a client for the public Slack Web API
func NewClient(botToken, appToken string) *Client {
	return NewClientWithURL(urls.SlackAPI, botToken, appToken)
}

// NewClientWithURL creates a client for the Web API rooted at baseURL
func NewClientWithURL(baseURL, botToken, appToken string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		BaseURL:       baseURL,
		BotToken:      botToken,
		AppToken:      appToken,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetRetry configures retry behavior for apps.connections.open
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// response is the envelope shared by every Web API response
type response struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Warning  string `json:"warning,omitempty"`
	Metadata struct {
		Messages []string `json:"messages,omitempty"`
	} `json:"response_metadata"`
}

type viewResponse struct {
	response
	View struct {
		ID   string `json:"id"`
		Hash string `json:"hash"`
	} `json:"view"`
}

type connectionResponse struct {
	response
	URL string `json:"url"`
}

// Identity is the result of auth.test
type Identity struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id"`
}

type authTestResponse struct {
	response
	Identity
}

// OpenView opens a modal for the given trigger and returns its id and hash
func (c *Client) OpenView(ctx context.Context, triggerID string, desc *view.Descriptor) (view.Ref, error) {
	body := map[string]any{
		"trigger_id": triggerID,
		"view":       desc.Modal,
	}

	var resp viewResponse
	if err := c.call(ctx, "views.open", c.BotToken, body, &resp); err != nil {
		return view.Ref{}, err
	}
	if !resp.OK {
		return view.Ref{}, classify("views.open", "", resp.response)
	}

	return view.Ref{ID: resp.View.ID, Hash: resp.View.Hash}, nil
}

// UpdateView replaces the view identified by ref and returns the new hash.
// A mismatched hash is reported as a stale view version.
func (c *Client) UpdateView(ctx context.Context, ref view.Ref, desc *view.Descriptor) (string, error) {
	body := map[string]any{
		"view_id": ref.ID,
		"hash":    ref.Hash,
		"view":    desc.Modal,
	}

	var resp viewResponse
	if err := c.call(ctx, "views.update", c.BotToken, body, &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", classify("views.update", ref.ID, resp.response)
	}

	return resp.View.Hash, nil
}

// AuthTest returns the identity behind the bot token
func (c *Client) AuthTest(ctx context.Context) (*Identity, error) {
	var resp authTestResponse
	if err := c.call(ctx, "auth.test", c.BotToken, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, classify("auth.test", "", resp.response)
	}
	return &resp.Identity, nil
}

// OpenConnection asks for a Socket Mode websocket URL. Transport failures and
// rate limiting are retried with exponential backoff.
func (c *Client) OpenConnection(ctx context.Context) (string, error) {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Warn("Retrying apps.connections.open",
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)
			if err := sleep(ctx, currentDelay); err != nil {
				return "", modalerr.NewTransportError("connection attempt cancelled", err)
			}

			currentDelay *= 2
			if currentDelay > c.MaxRetryDelay {
				currentDelay = c.MaxRetryDelay
			}
		}

		url, err := c.openConnectionAttempt(ctx)
		if err == nil {
			return url, nil
		}
		lastErr = err

		var rl *rateLimitError
		if errors.As(err, &rl) {
			currentDelay = rl.retryAfter
			continue
		}

		// Auth and host-reported errors will not fix themselves
		if !modalerr.IsTransportError(err) || hostCode(err) != "" {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Client) openConnectionAttempt(ctx context.Context) (string, error) {
	var resp connectionResponse
	if err := c.call(ctx, "apps.connections.open", c.AppToken, nil, &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", classify("apps.connections.open", "", resp.response)
	}
	if resp.URL == "" {
		return "", modalerr.NewTransportError("apps.connections.open returned no url", nil)
	}
	return resp.URL, nil
}

// call POSTs a JSON body to a Web API method and decodes the response into out
func (c *Client) call(ctx context.Context, method, token string, body any, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return modalerr.NewTransportError(fmt.Sprintf("failed to encode %s request", method), err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+method, reader)
	if err != nil {
		return modalerr.NewTransportError(fmt.Sprintf("failed to create %s request", method), err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", "modalstate/"+version.Version)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return modalerr.NewTransportError(fmt.Sprintf("%s request failed", method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return newRateLimitError(method, resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return modalerr.NewTransportError(
			fmt.Sprintf("%s returned HTTP %d: %s", method, resp.StatusCode, strings.TrimSpace(string(data))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return modalerr.NewTransportError(fmt.Sprintf("failed to decode %s response", method), err)
	}

	logging.Debug("Web API call",
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

// classify maps a Slack error response to the error taxonomy
func classify(method, viewID string, resp response) error {
	code := resp.Error
	switch {
	case code == codeHashConflict:
		return modalerr.NewStaleViewVersion(viewID, code)
	case authCodes[code]:
		return modalerr.NewAuthError(fmt.Sprintf("%s rejected the token", method), code)
	default:
		msg := fmt.Sprintf("%s failed", method)
		if len(resp.Metadata.Messages) > 0 {
			msg += ": " + strings.Join(resp.Metadata.Messages, "; ")
		}
		return modalerr.NewHostError(msg, code)
	}
}

func hostCode(err error) string {
	var e *modalerr.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// rateLimitError is a transport error that carries the Retry-After delay
type rateLimitError struct {
	err        *modalerr.Error
	retryAfter time.Duration
}

func newRateLimitError(method, retryAfter string) *rateLimitError {
	delay := DefaultRetryDelay
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
		delay = time.Duration(secs) * time.Second
	}
	return &rateLimitError{
		err:        modalerr.NewHostError(fmt.Sprintf("%s was rate limited", method), codeRateLimited),
		retryAfter: delay,
	}
}

func (e *rateLimitError) Error() string {
	return e.err.Error()
}

func (e *rateLimitError) Unwrap() error {
	return e.err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
