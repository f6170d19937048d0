package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/nocodecreative/n8nchat/internal/thinking"
)

// EnvPrefix prefixes every environment override, e.g. N8NCHAT_WEBHOOK_URL.
const EnvPrefix = "N8NCHAT_"

var (
	// ErrNoWebhookURL is returned by Validate when webhook.url is empty.
	ErrNoWebhookURL = errors.New("config: webhook url is required")

	envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Webhook: WebhookConfig{
			Timeout: Duration(60 * time.Second),
		},
		Branding: BrandingConfig{
			PoweredBy: PoweredByConfig{
				Text: "Powered by n8n",
				Link: "https://n8n.partnerlinks.io/m8a94i19zhqq?utm_source=nocodecreative.io",
			},
		},
		Style: StyleConfig{
			PrimaryColor:    "#854fff",
			SecondaryColor:  "#6b3fd4",
			Position:        "right",
			BackgroundColor: "#ffffff",
			FontColor:       "#333333",
		},
		ThinkingWords: append([]string(nil), thinking.DefaultWords...),
		Thinking: ThinkingConfig{
			MinDelay: Duration(thinking.DefaultRange.Min),
			MaxDelay: Duration(thinking.DefaultRange.Max),
		},
	}
}

// Load builds the configuration from defaults, the file at path, and
// N8NCHAT_* environment variables, in that order. A missing file is not
// an error. Values present in the file replace defaults field by field.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	expanded := []byte(expandEnvTemplates(string(data)))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
	default:
		std, err := hujson.Standardize(expanded)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if err := json.Unmarshal(std, cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
	}
	return nil
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults restores values a file or env var blanked out.
func applyDefaults(cfg *Config) {
	if len(cfg.ThinkingWords) == 0 {
		cfg.ThinkingWords = append([]string(nil), thinking.DefaultWords...)
	}
	if cfg.Webhook.Timeout <= 0 {
		cfg.Webhook.Timeout = Duration(60 * time.Second)
	}
	if cfg.Thinking.MinDelay <= 0 {
		cfg.Thinking.MinDelay = Duration(thinking.DefaultRange.Min)
	}
	if cfg.Thinking.MaxDelay <= 0 {
		cfg.Thinking.MaxDelay = Duration(thinking.DefaultRange.Max)
	}
	if cfg.Style.Position != "left" {
		cfg.Style.Position = "right"
	}
}

// Validate rejects configurations the webhook commands cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Webhook.URL) == "" {
		return ErrNoWebhookURL
	}
	if c.Thinking.MinDelay > c.Thinking.MaxDelay {
		return fmt.Errorf("config: thinking.minDelay %s exceeds maxDelay %s", c.Thinking.MinDelay, c.Thinking.MaxDelay)
	}
	return nil
}

// DelayRange returns the indicator phase bounds.
func (c *Config) DelayRange() thinking.Range {
	return thinking.Range{Min: c.Thinking.MinDelay.Duration(), Max: c.Thinking.MaxDelay.Duration()}
}
