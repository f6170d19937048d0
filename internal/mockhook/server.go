// Package mockhook is a local stand-in for an n8n chat webhook.
package mockhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/thinking"
)

// DefaultGreeting answers loadPreviousSession.
const DefaultGreeting = "Hi there! 👋 How can I help you today?"

// Options configures the mock.
type Options struct {
	Addr      string
	Greeting  string              // defaults to DefaultGreeting
	Reply     func(string) string // defaults to an echo
	Latency   thinking.Range      // delay before each reply, zero for none
	FailEvery int                 // every Nth request gets a 500, 0 disables
	Array     bool                // wrap replies as [{"output": ...}]
	Rand      *rand.Rand
	Logger    *slog.Logger
}

// Session summarizes traffic for one session ID.
type Session struct {
	ID       string    `json:"id"`
	Messages int       `json:"messages"`
	LastSeen time.Time `json:"last_seen"`
}

// Server is the mock webhook HTTP server.
type Server struct {
	httpServer *http.Server
	opts       Options
	log        *slog.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	count    int
	requests []webhook.Request
	sessions map[string]*Session
	order    []string
}

// NewServer creates a mock webhook. POST any path to talk to it.
func NewServer(opts Options) *Server {
	if opts.Greeting == "" {
		opts.Greeting = DefaultGreeting
	}
	if opts.Reply == nil {
		opts.Reply = func(text string) string { return "You said: " + text }
	}
	if opts.Rand == nil {
		opts.Rand = thinking.NewRand()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		opts:     opts,
		log:      opts.Logger,
		rng:      opts.Rand,
		sessions: make(map[string]*Session),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/sessions", s.handleSessions)
	r.Post("/*", s.handleWebhook)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is stopped.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("mock webhook listening", "addr", ln.Addr().String(), "url", "http://"+ln.Addr().String()+"/webhook/chat")
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Requests returns every decoded request in arrival order.
func (s *Server) Requests() []webhook.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]webhook.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Sessions returns the sessions seen so far, oldest first.
func (s *Server) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.sessions[id])
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions())
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	req, err := decodeRequest(raw)
	if err != nil {
		s.log.Warn("mock webhook: bad request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fail, delay := s.record(req)

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if fail {
		s.log.Info("mock webhook: injected failure", "action", req.Action, "session", req.SessionID)
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return
	}

	var output string
	switch req.Action {
	case webhook.ActionLoadPreviousSession:
		output = s.opts.Greeting
	case webhook.ActionSendMessage:
		output = s.opts.Reply(req.ChatInput)
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
		return
	}

	s.log.Debug("mock webhook: reply", "action", req.Action, "session", req.SessionID, "delay", delay)

	body := map[string]string{"output": output}
	if s.opts.Array {
		writeJSON(w, http.StatusOK, []map[string]string{body})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// record stores req and decides whether it fails and how long it waits.
func (s *Server) record(req webhook.Request) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.requests = append(s.requests, req)

	sess, ok := s.sessions[req.SessionID]
	if !ok {
		sess = &Session{ID: req.SessionID}
		s.sessions[req.SessionID] = sess
		s.order = append(s.order, req.SessionID)
	}
	if req.Action == webhook.ActionSendMessage {
		sess.Messages++
	}
	sess.LastSeen = time.Now()

	fail := s.opts.FailEvery > 0 && s.count%s.opts.FailEvery == 0

	var delay time.Duration
	if s.opts.Latency != (thinking.Range{}) {
		delay = s.opts.Latency.Random(s.rng)
	}
	return fail, delay
}

// decodeRequest accepts a single request object or an array holding one.
func decodeRequest(raw []byte) (webhook.Request, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return webhook.Request{}, fmt.Errorf("empty body")
	}
	if raw[0] == '[' {
		var list []webhook.Request
		if err := json.Unmarshal(raw, &list); err != nil {
			return webhook.Request{}, fmt.Errorf("decode request: %w", err)
		}
		if len(list) == 0 {
			return webhook.Request{}, fmt.Errorf("empty request array")
		}
		return list[0], nil
	}
	var req webhook.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return webhook.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
