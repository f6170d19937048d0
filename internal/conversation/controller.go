// Package conversation owns the chat session lifecycle against the webhook.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/transcript"
)

// User-visible failure notices.
const (
	StartFailedText = "Failed to start conversation. Please try again."
	SendFailedText  = "Failed to send message. Please try again."
)

// View is which screen the chat panel shows.
type View int

const (
	ViewNewConversation View = iota
	ViewActive
)

func (v View) String() string {
	if v == ViewActive {
		return "active"
	}
	return "new"
}

// Backend is the remote chat endpoint.
type Backend interface {
	LoadPreviousSession(ctx context.Context, sessionID string, meta webhook.Metadata) (string, error)
	SendMessage(ctx context.Context, sessionID, text string, meta webhook.Metadata) (string, error)
}

// Indicator is the pending-reply animation bracketing each send.
type Indicator interface {
	Start()
	Stop()
}

// Options configures a Controller.
type Options struct {
	Backend    Backend
	Indicator  Indicator
	Transcript *transcript.Transcript
	Metadata   func() webhook.Metadata // defaults to empty metadata
	NewID      func() string           // defaults to uuid.NewString
	Logger     *slog.Logger
}

// Controller holds the session identifier and brackets every outbound
// message with indicator Start/Stop.
type Controller struct {
	backend   Backend
	indicator Indicator
	tr        *transcript.Transcript
	metadata  func() webhook.Metadata
	newID     func() string
	log       *slog.Logger

	mu        sync.RWMutex
	sessionID string
	view      View
}

// New creates a controller in the new-conversation view.
func New(opts Options) *Controller {
	if opts.Metadata == nil {
		opts.Metadata = func() webhook.Metadata { return webhook.Metadata{} }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		backend:   opts.Backend,
		indicator: opts.Indicator,
		tr:        opts.Transcript,
		metadata:  opts.Metadata,
		newID:     opts.NewID,
		log:       opts.Logger,
	}
}

// SessionID returns the current session identifier (empty before the first start).
func (c *Controller) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// View returns the current screen.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Resume adopts an existing session identifier and switches to the active
// view without contacting the webhook.
func (c *Controller) Resume(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
	c.view = ViewActive
}

// StartNewConversation replaces the session identifier and asks the webhook
// for a greeting. On failure an error notice is appended and the view stays put.
func (c *Controller) StartNewConversation(ctx context.Context) error {
	id := c.newID()
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()

	out, err := c.backend.LoadPreviousSession(ctx, id, c.metadata())
	if err != nil {
		c.log.Error("start conversation failed", "session", id, "error", err)
		c.tr.AppendError(StartFailedText)
		return err
	}

	c.mu.Lock()
	c.view = ViewActive
	c.mu.Unlock()

	c.tr.AppendBot(out)
	c.log.Info("conversation started", "session", id)
	return nil
}

// SendMessage posts text to the webhook. Blank text is ignored. The
// indicator is stopped before the reply or error notice is appended,
// whichever way the request ends.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	id := c.SessionID()
	c.tr.AppendUser(text)
	c.indicator.Start()

	out, err := c.backend.SendMessage(ctx, id, text, c.metadata())
	c.indicator.Stop()

	if err != nil {
		c.log.Error("send message failed", "session", id, "error", err)
		c.tr.AppendError(SendFailedText)
		return err
	}

	c.tr.AppendBot(out)
	c.log.Debug("reply received", "session", id, "bytes", len(out))
	return nil
}
