// Package webhook provides an HTTP client for an n8n chat webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nocodecreative/n8nchat/internal/version"
)

// Actions multiplexed over the webhook endpoint.
const (
	ActionLoadPreviousSession = "loadPreviousSession"
	ActionSendMessage         = "sendMessage"
)

const maxResponseBytes = 4 << 20

var (
	// ErrStatus reports a non-2xx response.
	ErrStatus = errors.New("webhook: unexpected status")
	// ErrMalformed reports a response body without a usable reply.
	ErrMalformed = errors.New("webhook: malformed response")
)

// Metadata describes the client environment, sent with every request.
type Metadata struct {
	UserID         string `json:"userId"`
	PageURL        string `json:"pageUrl"`
	PageTitle      string `json:"pageTitle"`
	UserAgent      string `json:"userAgent"`
	Referrer       string `json:"referrer"`
	ScreenWidth    int    `json:"screenWidth"`
	ScreenHeight   int    `json:"screenHeight"`
	ViewportWidth  int    `json:"viewportWidth"`
	ViewportHeight int    `json:"viewportHeight"`
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
	Timestamp      string `json:"timestamp"`
	Date           string `json:"date"`
}

// Request is the JSON body posted to the webhook.
type Request struct {
	Action    string   `json:"action"`
	SessionID string   `json:"sessionId"`
	Route     string   `json:"route"`
	ChatInput string   `json:"chatInput,omitempty"`
	Metadata  Metadata `json:"metadata"`
}

type reply struct {
	Output *string `json:"output"`
}

// Client posts chat actions to a single webhook URL.
type Client struct {
	url   string
	route string
	http  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a webhook client.
func New(url, route string, opts ...Option) *Client {
	c := &Client{
		url:   url,
		route: route,
		http:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadPreviousSession opens a session and returns the webhook's greeting.
// The request body is a one-element array, as n8n's chat trigger expects.
func (c *Client) LoadPreviousSession(ctx context.Context, sessionID string, meta Metadata) (string, error) {
	body := []Request{{
		Action:    ActionLoadPreviousSession,
		SessionID: sessionID,
		Route:     c.route,
		Metadata:  meta,
	}}
	return c.post(ctx, body)
}

// SendMessage posts a user message and returns the reply.
func (c *Client) SendMessage(ctx context.Context, sessionID, text string, meta Metadata) (string, error) {
	body := Request{
		Action:    ActionSendMessage,
		SessionID: sessionID,
		Route:     c.route,
		ChatInput: text,
		Metadata:  meta,
	}
	return c.post(ctx, body)
}

func (c *Client) post(ctx context.Context, body any) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return ParseReply(raw)
}

// ParseReply extracts the output text from either {"output": "..."} or an
// array whose first element has that shape.
func ParseReply(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty body", ErrMalformed)
	}

	var r reply
	if raw[0] == '[' {
		var list []reply
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(list) == 0 {
			return "", fmt.Errorf("%w: empty array", ErrMalformed)
		}
		r = list[0]
	} else if err := json.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if r.Output == nil {
		return "", fmt.Errorf("%w: missing output", ErrMalformed)
	}
	return *r.Output, nil
}
