package mockhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/conversation"
	"github.com/nocodecreative/n8nchat/internal/thinking"
	"github.com/nocodecreative/n8nchat/internal/transcript"
)

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/abc/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status %q, got %q", "ok", body["status"])
	}
}

func TestLoadPreviousSessionArrayBody(t *testing.T) {
	srv := NewServer(Options{Greeting: "hello from mock"})

	w := post(t, srv.Handler(), `[{"action":"loadPreviousSession","sessionId":"s1","route":"general","metadata":{}}]`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	out, err := webhook.ParseReply(w.Body.Bytes())
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if out != "hello from mock" {
		t.Errorf("expected greeting, got %q", out)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].SessionID != "s1" || reqs[0].Route != "general" {
		t.Errorf("unexpected recorded requests: %+v", reqs)
	}
}

func TestSendMessageEcho(t *testing.T) {
	srv := NewServer(Options{Array: true})

	w := post(t, srv.Handler(), `{"action":"sendMessage","sessionId":"s1","chatInput":"hello"}`)
	if !strings.HasPrefix(strings.TrimSpace(w.Body.String()), "[") {
		t.Errorf("expected array response, got %s", w.Body.String())
	}
	out, err := webhook.ParseReply(w.Body.Bytes())
	if err != nil {
		t.Fatalf("ParseReply: %v", err)
	}
	if out != "You said: hello" {
		t.Errorf("expected echo, got %q", out)
	}
}

func TestBadRequests(t *testing.T) {
	srv := NewServer(Options{})

	for _, body := range []string{``, `[]`, `{"action":"dance"}`, `nope`} {
		if w := post(t, srv.Handler(), body); w.Code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestFailEvery(t *testing.T) {
	srv := NewServer(Options{FailEvery: 2})
	body := `{"action":"sendMessage","sessionId":"s1","chatInput":"x"}`

	codes := []int{}
	for i := 0; i < 4; i++ {
		codes = append(codes, post(t, srv.Handler(), body).Code)
	}
	want := []int{200, 500, 200, 500}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, codes)
		}
	}
}

func TestSessionsTracked(t *testing.T) {
	srv := NewServer(Options{})
	post(t, srv.Handler(), `[{"action":"loadPreviousSession","sessionId":"a"}]`)
	post(t, srv.Handler(), `{"action":"sendMessage","sessionId":"a","chatInput":"1"}`)
	post(t, srv.Handler(), `{"action":"sendMessage","sessionId":"a","chatInput":"2"}`)
	post(t, srv.Handler(), `[{"action":"loadPreviousSession","sessionId":"b"}]`)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var list []Session
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].ID != "a" || list[0].Messages != 2 || list[1].ID != "b" || list[1].Messages != 0 {
		t.Errorf("unexpected sessions: %+v", list)
	}
}

func TestLatencyRespectsCancellation(t *testing.T) {
	srv := NewServer(Options{Latency: thinking.Range{Min: time.Hour, Max: time.Hour}})
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := webhook.New(hs.URL, "").SendMessage(ctx, "s", "hi", webhook.Metadata{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

// The full client stack against the mock: start, a good send, an injected failure.
func TestConversationAgainstMock(t *testing.T) {
	srv := NewServer(Options{FailEvery: 3, Array: true})
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	tr := transcript.New()
	seq := thinking.NewSequencer(tr, thinking.Options{Words: []string{"a", "b"}})
	c := conversation.New(conversation.Options{
		Backend:    webhook.New(hs.URL+"/webhook/chat", "general"),
		Indicator:  seq,
		Transcript: tr,
	})
	ctx := context.Background()

	if err := c.StartNewConversation(ctx); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}
	if err := c.SendMessage(ctx, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := c.SendMessage(ctx, "again"); !errors.Is(err, webhook.ErrStatus) {
		t.Fatalf("expected injected ErrStatus, got %v", err)
	}

	msgs := tr.Messages()
	want := []struct {
		role transcript.Role
		text string
	}{
		{transcript.RoleBot, DefaultGreeting},
		{transcript.RoleUser, "hello"},
		{transcript.RoleBot, "You said: hello"},
		{transcript.RoleUser, "again"},
		{transcript.RoleBot, conversation.SendFailedText},
	}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(msgs), msgs)
	}
	for i, w := range want {
		if msgs[i].Role != w.role || msgs[i].Text != w.text {
			t.Errorf("message %d: expected %s %q, got %s %q", i, w.role, w.text, msgs[i].Role, msgs[i].Text)
		}
	}
	if seq.Active() {
		t.Error("expected indicator stopped")
	}

	reqs := srv.Requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.SessionID != c.SessionID() {
			t.Errorf("expected session %s, got %s", c.SessionID(), r.SessionID)
		}
	}
}
