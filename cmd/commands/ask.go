package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/nocodecreative/n8nchat/internal/transcript"
)

// NewAskCommand returns the ask subcommand.
func NewAskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send one message to the webhook and print the reply",
		ArgsUsage: "<message> (or read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "session",
				Aliases: []string{"s"},
				Usage:   "Session ID to resume (empty = new session)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the session ID and reply as JSON",
			},
		},
		Action: runAsk,
	}
}

type askResult struct {
	SessionID string `json:"sessionId"`
	Output    string `json:"output"`
}

func runAsk(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr, slog.LevelWarn)

	message, err := askMessage(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	sess := newSession(cfg, os.Stdout)
	defer sess.sequencer.Stop()

	if term.IsTerminal(int(os.Stderr.Fd())) {
		ind := &stderrIndicator{tr: sess.transcript, w: os.Stderr}
		sess.transcript.OnChange(ind.refresh)
		defer ind.clear()
	}

	ctrl := sess.controller
	if id := cmd.String("session"); id != "" {
		ctrl.Resume(id)
	} else {
		if err := ctrl.StartNewConversation(ctx); err != nil {
			return fmt.Errorf("start conversation: %w", err)
		}
		if !cmd.Bool("json") {
			fmt.Fprintf(os.Stderr, "session: %s\n", ctrl.SessionID())
		}
	}

	if err := ctrl.SendMessage(ctx, message); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	reply, _ := sess.transcript.Last(transcript.RoleBot)
	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(askResult{SessionID: ctrl.SessionID(), Output: reply.Text})
	}
	fmt.Fprintln(os.Stdout, reply.Text)
	return nil
}

// askMessage joins the arguments, or reads stdin when it is piped.
func askMessage(cmd *cli.Command) (string, error) {
	message := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if message == "" && !term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		return "", errors.New("usage: n8nchat ask <message>")
	}
	return message, nil
}

// stderrIndicator mirrors the thinking indicator on one terminal line.
type stderrIndicator struct {
	tr *transcript.Transcript
	w  io.Writer

	mu    sync.Mutex
	shown bool
}

func (s *stderrIndicator) refresh() {
	m, ok := s.tr.Last(transcript.RoleThinking)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.clearLocked()
		return
	}
	fmt.Fprintf(s.w, "\r\x1b[K%s", m.Text)
	s.shown = true
}

func (s *stderrIndicator) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *stderrIndicator) clearLocked() {
	if s.shown {
		fmt.Fprint(s.w, "\r\x1b[K")
		s.shown = false
	}
}
