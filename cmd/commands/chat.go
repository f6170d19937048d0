package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/nocodecreative/n8nchat/clients/tui"
	"github.com/nocodecreative/n8nchat/internal/config"
)

// NewChatCommand returns the chat subcommand.
func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Open the interactive chat widget",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hash",
				Usage: "Launch hash matched against behavior.openOnHash (e.g. #support)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Start with the chat panel open",
			},
		},
		Action: runChat,
	}
}

func runChat(ctx context.Context, cmd *cli.Command) error {
	// The TUI owns the terminal; logs go to a file.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	setupLogging(cmd, logFile, slog.LevelInfo)

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := newSession(cfg, os.Stdout)
	defer sess.sequencer.Stop()

	app := tui.NewApp(ctx, tui.Options{
		Config:     cfg,
		Controller: sess.controller,
		Transcript: sess.transcript,
		Hash:       cmd.String("hash"),
		Open:       cmd.Bool("open"),
	})

	// SIGHUP re-reads .env and the config file.
	reloader := config.NewReloader(configPath(cmd), config.DotenvPath(), cfg).
		WithOverrides(flagOverrides(cmd))
	reloader.OnReload(func(next *config.Config) {
		sess.sequencer.Configure(next.ThinkingWords, next.DelayRange())
		app.Reconfigure(next)
	})

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				if err := reloader.Reload(); err != nil {
					slog.Error("reload failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	slog.Info("chat started", "webhook", cfg.Webhook.URL, "route", cfg.Webhook.Route)
	return tui.Run(ctx, app)
}
