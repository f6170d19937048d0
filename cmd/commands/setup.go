package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/nocodecreative/n8nchat/clients/webhook"
	"github.com/nocodecreative/n8nchat/internal/config"
	"github.com/nocodecreative/n8nchat/internal/conversation"
	"github.com/nocodecreative/n8nchat/internal/thinking"
	"github.com/nocodecreative/n8nchat/internal/transcript"
)

// configPath resolves --config against the files under $N8NCHAT_PATH.
func configPath(cmd *cli.Command) string {
	return config.ResolveConfigPath(cmd.String("config"))
}

// flagOverrides returns a function applying the global flags to a config.
// The reloader reapplies it so flags keep precedence over edited files.
func flagOverrides(cmd *cli.Command) func(*config.Config) {
	url, urlSet := cmd.String("webhook-url"), cmd.IsSet("webhook-url")
	route, routeSet := cmd.String("route"), cmd.IsSet("route")
	return func(cfg *config.Config) {
		if urlSet {
			cfg.Webhook.URL = url
		}
		if routeSet {
			cfg.Webhook.Route = route
		}
	}
}

// loadConfig loads the layered configuration with flags applied on top.
// validate is set by commands that talk to the webhook.
func loadConfig(cmd *cli.Command, validate bool) (*config.Config, error) {
	path := configPath(cmd)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	flagOverrides(cmd)(cfg)

	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	slog.Debug("config loaded", "path", path, "webhook", cfg.Webhook.URL)
	return cfg, nil
}

// setupLogging installs the default slog handler writing to w. --debug
// lowers level to debug.
func setupLogging(cmd *cli.Command, w io.Writer, level slog.Level) {
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// openLogFile opens the TUI log file for appending.
func openLogFile() (*os.File, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// session wires the transcript, the thinking sequencer and the controller
// for one webhook.
type session struct {
	transcript *transcript.Transcript
	sequencer  *thinking.Sequencer
	controller *conversation.Controller
}

func newSession(cfg *config.Config, terminal *os.File) *session {
	tr := transcript.New()
	seq := thinking.NewSequencer(tr, thinking.Options{
		Words:  cfg.ThinkingWords,
		Delays: cfg.DelayRange(),
	})

	meta := conversation.MetadataSource{
		PageURL:   pageURL(cfg),
		PageTitle: cfg.Branding.Name,
		Terminal:  terminal,
	}
	client := webhook.New(cfg.Webhook.URL, cfg.Webhook.Route,
		webhook.WithTimeout(cfg.Webhook.Timeout.Duration()),
	)

	ctrl := conversation.New(conversation.Options{
		Backend:    client,
		Indicator:  seq,
		Transcript: tr,
		Metadata:   meta.Collect,
	})
	return &session{transcript: tr, sequencer: seq, controller: ctrl}
}

func pageURL(cfg *config.Config) string {
	if cfg.Webhook.Route != "" {
		return cfg.Webhook.Route
	}
	return cfg.Webhook.URL
}
