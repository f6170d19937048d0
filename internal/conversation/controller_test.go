package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/transcript"
)

type call struct {
	action    string
	sessionID string
	text      string
}

type fakeBackend struct {
	mu    sync.Mutex
	calls []call
	reply string
	err   error

	// onSend runs while the request is "in flight".
	onSend func()
}

func (b *fakeBackend) LoadPreviousSession(_ context.Context, sessionID string, _ webhook.Metadata) (string, error) {
	b.mu.Lock()
	b.calls = append(b.calls, call{action: webhook.ActionLoadPreviousSession, sessionID: sessionID})
	b.mu.Unlock()
	return b.reply, b.err
}

func (b *fakeBackend) SendMessage(_ context.Context, sessionID, text string, _ webhook.Metadata) (string, error) {
	b.mu.Lock()
	b.calls = append(b.calls, call{action: webhook.ActionSendMessage, sessionID: sessionID, text: text})
	b.mu.Unlock()
	if b.onSend != nil {
		b.onSend()
	}
	return b.reply, b.err
}

// fakeIndicator records Start/Stop and draws a marker into the transcript
// so ordering against appended messages can be checked.
type fakeIndicator struct {
	tr     *transcript.Transcript
	events []string
}

func (f *fakeIndicator) Start() {
	f.events = append(f.events, "start")
	f.tr.Append(transcript.Message{Role: transcript.RoleThinking, Indicator: transcript.IndicatorDots})
}

func (f *fakeIndicator) Stop() {
	f.events = append(f.events, "stop")
	f.tr.RemoveRole(transcript.RoleThinking)
}

func newTestController(backend *fakeBackend) (*Controller, *transcript.Transcript, *fakeIndicator) {
	tr := transcript.New()
	ind := &fakeIndicator{tr: tr}
	ids := 0
	c := New(Options{
		Backend:    backend,
		Indicator:  ind,
		Transcript: tr,
		NewID: func() string {
			ids++
			return "sess-" + string(rune('0'+ids))
		},
	})
	return c, tr, ind
}

func TestStartNewConversationSuccess(t *testing.T) {
	backend := &fakeBackend{reply: "Welcome!"}
	c, tr, ind := newTestController(backend)

	if err := c.StartNewConversation(context.Background()); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}

	if c.View() != ViewActive {
		t.Errorf("expected active view, got %s", c.View())
	}
	if c.SessionID() != "sess-1" {
		t.Errorf("expected sess-1, got %q", c.SessionID())
	}
	msgs := tr.Messages()
	if len(msgs) != 1 || msgs[0].Role != transcript.RoleBot || msgs[0].Text != "Welcome!" {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
	if len(ind.events) != 0 {
		t.Errorf("expected indicator untouched, got %v", ind.events)
	}
	if backend.calls[0].action != webhook.ActionLoadPreviousSession || backend.calls[0].sessionID != "sess-1" {
		t.Errorf("unexpected call: %+v", backend.calls[0])
	}
}

func TestStartNewConversationFailure(t *testing.T) {
	backend := &fakeBackend{err: webhook.ErrStatus}
	c, tr, _ := newTestController(backend)

	err := c.StartNewConversation(context.Background())
	if !errors.Is(err, webhook.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	if c.View() != ViewNewConversation {
		t.Errorf("expected view unchanged, got %s", c.View())
	}
	msgs := tr.Messages()
	if len(msgs) != 1 || !msgs[0].Error || msgs[0].Text != StartFailedText {
		t.Fatalf("expected one start error notice, got %+v", msgs)
	}
}

func TestStartNewConversationReplacesSession(t *testing.T) {
	backend := &fakeBackend{reply: "hi"}
	c, _, _ := newTestController(backend)

	c.StartNewConversation(context.Background())
	first := c.SessionID()
	c.StartNewConversation(context.Background())

	if c.SessionID() == first {
		t.Errorf("expected a new session ID, still %q", first)
	}
}

func TestSendMessageBlankIsIgnored(t *testing.T) {
	backend := &fakeBackend{reply: "unused"}
	c, tr, ind := newTestController(backend)

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := c.SendMessage(context.Background(), text); err != nil {
			t.Fatalf("SendMessage(%q): %v", text, err)
		}
	}

	if tr.Len() != 0 {
		t.Errorf("expected no messages, got %d", tr.Len())
	}
	if len(ind.events) != 0 {
		t.Errorf("expected indicator not started, got %v", ind.events)
	}
	if len(backend.calls) != 0 {
		t.Errorf("expected no requests, got %d", len(backend.calls))
	}
}

func TestSendMessageSuccess(t *testing.T) {
	backend := &fakeBackend{reply: "hi there"}
	c, tr, ind := newTestController(backend)
	c.Resume("sess-x")

	var inFlight []transcript.Message
	backend.onSend = func() { inFlight = tr.Messages() }

	if err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// User message and indicator are both visible while the request is pending.
	if len(inFlight) != 2 || inFlight[0].Text != "hello" || inFlight[1].Role != transcript.RoleThinking {
		t.Errorf("unexpected in-flight transcript: %+v", inFlight)
	}

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(msgs), msgs)
	}
	if msgs[0].Role != transcript.RoleUser || msgs[0].Text != "hello" {
		t.Errorf("expected user hello, got %+v", msgs[0])
	}
	if msgs[1].Role != transcript.RoleBot || msgs[1].Text != "hi there" || msgs[1].Error {
		t.Errorf("expected bot hi there, got %+v", msgs[1])
	}
	if tr.Count(transcript.RoleThinking) != 0 {
		t.Error("expected no indicator left")
	}
	if got := ind.events; len(got) != 2 || got[0] != "start" || got[1] != "stop" {
		t.Errorf("expected start/stop, got %v", got)
	}
	if backend.calls[0].sessionID != "sess-x" || backend.calls[0].text != "hello" {
		t.Errorf("unexpected call: %+v", backend.calls[0])
	}
}

func TestSendMessageFailure(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	c, tr, ind := newTestController(backend)

	if err := c.SendMessage(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error")
	}

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(msgs), msgs)
	}
	if msgs[0].Text != "hello" || msgs[0].Role != transcript.RoleUser {
		t.Errorf("expected user hello first, got %+v", msgs[0])
	}
	if !msgs[1].Error || msgs[1].Text != SendFailedText {
		t.Errorf("expected one send error notice, got %+v", msgs[1])
	}
	if tr.Count(transcript.RoleThinking) != 0 {
		t.Error("expected no indicator left")
	}
	if got := ind.events; len(got) != 2 || got[1] != "stop" {
		t.Errorf("expected indicator stopped, got %v", got)
	}
}

func TestSendMessageTrimsInput(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	c, tr, _ := newTestController(backend)

	c.SendMessage(context.Background(), "  hello  ")

	if backend.calls[0].text != "hello" {
		t.Errorf("expected trimmed request text, got %q", backend.calls[0].text)
	}
	if tr.Messages()[0].Text != "hello" {
		t.Errorf("expected trimmed user message, got %q", tr.Messages()[0].Text)
	}
}

func TestMetadataSourceCollect(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "fr_FR.UTF-8")
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	meta := MetadataSource{
		PageURL:   "support",
		PageTitle: "Acme",
		Now:       func() time.Time { return fixed },
	}.Collect()

	if meta.Language != "fr-FR" {
		t.Errorf("expected fr-FR, got %q", meta.Language)
	}
	if meta.Date != "2026-03-04" {
		t.Errorf("expected date 2026-03-04, got %q", meta.Date)
	}
	if meta.Timestamp != "2026-03-04T05:06:07.000Z" {
		t.Errorf("unexpected timestamp %q", meta.Timestamp)
	}
	if meta.Timezone != "UTC" {
		t.Errorf("expected UTC, got %q", meta.Timezone)
	}
	if meta.PageURL != "support" || meta.PageTitle != "Acme" {
		t.Errorf("unexpected page fields: %+v", meta)
	}
	if meta.UserAgent == "" {
		t.Error("expected a user agent")
	}
	if meta.ScreenWidth != 0 || meta.ViewportHeight != 0 {
		t.Errorf("expected zero size without a terminal, got %+v", meta)
	}
}
