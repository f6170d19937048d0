package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nocodecreative/n8nchat/internal/mockhook"
	"github.com/nocodecreative/n8nchat/internal/thinking"
)

const defaultMockAddr = "127.0.0.1:5678"

// NewMockCommand returns the mock subcommand: a local stand-in for an n8n
// chat webhook, plus helpers to inspect a running one.
func NewMockCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock",
		Usage: "Run or inspect a mock chat webhook",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the mock webhook server",
				Flags: []cli.Flag{
					addrFlag(),
					&cli.StringFlag{
						Name:  "greeting",
						Usage: "Reply to loadPreviousSession",
						Value: mockhook.DefaultGreeting,
					},
					&cli.DurationFlag{
						Name:  "latency",
						Usage: "Maximum random delay before each reply",
					},
					&cli.IntFlag{
						Name:  "fail-every",
						Usage: "Answer every Nth request with a 500 (0 = never)",
					},
					&cli.BoolFlag{
						Name:  "array",
						Usage: "Wrap replies in a JSON array",
					},
				},
				Action: runMockServe,
			},
			{
				Name:   "sessions",
				Usage:  "List sessions seen by a running mock",
				Flags:  []cli.Flag{addrFlag()},
				Action: runMockSessions,
			},
			{
				Name:   "status",
				Usage:  "Check whether a mock is running",
				Flags:  []cli.Flag{addrFlag()},
				Action: runMockStatus,
			},
		},
		DefaultCommand: "serve",
	}
}

func addrFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "addr",
		Usage: "Address of the mock server",
		Value: defaultMockAddr,
	}
}

func runMockServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr, slog.LevelInfo)

	latency := cmd.Duration("latency")
	server := mockhook.NewServer(mockhook.Options{
		Addr:      cmd.String("addr"),
		Greeting:  cmd.String("greeting"),
		Latency:   thinking.Range{Min: latency / 4, Max: latency},
		FailEvery: int(cmd.Int("fail-every")),
		Array:     cmd.Bool("array"),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func runMockSessions(ctx context.Context, cmd *cli.Command) error {
	var list []mockhook.Session
	if err := getJSON(ctx, cmd.String("addr"), "/api/sessions", &list); err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMESSAGES\tLAST SEEN")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.ID, s.Messages, s.LastSeen.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runMockStatus(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	var body map[string]string
	if err := getJSON(ctx, addr, "/api/health", &body); err != nil {
		fmt.Printf("Mock: NOT RUNNING (%s)\n", addr)
		return nil
	}
	fmt.Printf("Mock: %s (%s)\n", body["status"], addr)
	return nil
}

func getJSON(ctx context.Context, addr, path string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
