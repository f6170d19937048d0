// Command chatflow exercises a chat webhook end to end.
//
// It opens a session with loadPreviousSession, sends one message, then
// checks that the transcript holds the greeting, the user message and a
// reply with no thinking indicator left over.
//
// Usage: chatflow -url http://127.0.0.1:5678/webhook/chat -message "hello"
//
// Exit codes:
//
//	0 = all checks passed
//	1 = a check failed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/conversation"
	"github.com/nocodecreative/n8nchat/internal/thinking"
	"github.com/nocodecreative/n8nchat/internal/transcript"
)

func main() {
	url := flag.String("url", "http://127.0.0.1:5678/webhook/chat", "Webhook URL")
	route := flag.String("route", "general", "Route sent with every request")
	message := flag.String("message", "e2e ping", "Message to send")
	expect := flag.String("expect", "", "Substring the reply must contain (empty = any)")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *url, *route, *message, *expect); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, url, route, message, expect string) error {
	tr := transcript.New()
	seq := thinking.NewSequencer(tr, thinking.Options{})
	ctrl := conversation.New(conversation.Options{
		Backend:    webhook.New(url, route),
		Indicator:  seq,
		Transcript: tr,
		Metadata:   conversation.MetadataSource{PageURL: route, PageTitle: "chatflow"}.Collect,
	})

	// ── Step 1: open a session ──────────────────────────────────────────
	if err := ctrl.StartNewConversation(ctx); err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	greeting, ok := tr.Last(transcript.RoleBot)
	if !ok || greeting.Error {
		return fmt.Errorf("no greeting in transcript")
	}
	fmt.Printf("CHECK session opened: %s\n", ctrl.SessionID())
	fmt.Printf("CHECK greeting: %q\n", greeting.Text)

	// ── Step 2: send a message ──────────────────────────────────────────
	// Sample the indicator while the request is in flight.
	sawIndicator := make(chan struct{}, 1)
	tr.OnChange(func() {
		if tr.Count(transcript.RoleThinking) > 0 {
			select {
			case sawIndicator <- struct{}{}:
			default:
			}
		}
	})

	if err := ctrl.SendMessage(ctx, message); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	select {
	case <-sawIndicator:
		fmt.Println("CHECK thinking indicator shown")
	default:
		return fmt.Errorf("thinking indicator never shown")
	}

	// ── Step 3: verify the transcript ───────────────────────────────────
	if n := tr.Count(transcript.RoleThinking); n != 0 {
		return fmt.Errorf("expected no indicator after reply, found %d", n)
	}
	reply, ok := tr.Last(transcript.RoleBot)
	if !ok || reply.Error {
		return fmt.Errorf("no reply in transcript")
	}
	if expect != "" && !strings.Contains(reply.Text, expect) {
		return fmt.Errorf("reply %q does not contain %q", reply.Text, expect)
	}
	fmt.Printf("CHECK reply: %q\n", reply.Text)

	if n := tr.Len(); n != 3 {
		return fmt.Errorf("expected 3 messages, got %d", n)
	}
	fmt.Println("PASS")
	return nil
}
