package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for n8nchat.
type Config struct {
	Webhook       WebhookConfig  `json:"webhook" yaml:"webhook" envPrefix:"WEBHOOK_"`
	Branding      BrandingConfig `json:"branding" yaml:"branding" envPrefix:"BRANDING_"`
	Style         StyleConfig    `json:"style" yaml:"style" envPrefix:"STYLE_"`
	Behavior      BehaviorConfig `json:"behavior" yaml:"behavior" envPrefix:"BEHAVIOR_"`
	ThinkingWords []string       `json:"thinkingWords" yaml:"thinkingWords" env:"THINKING_WORDS" envSeparator:"|"`
	Thinking      ThinkingConfig `json:"thinking" yaml:"thinking" envPrefix:"THINKING_"`
}

// WebhookConfig points at the n8n chat webhook.
type WebhookConfig struct {
	URL     string   `json:"url" yaml:"url" env:"URL"`
	Route   string   `json:"route" yaml:"route" env:"ROUTE"`
	Timeout Duration `json:"timeout" yaml:"timeout" env:"TIMEOUT"`
}

// BrandingConfig holds the texts shown around the chat.
type BrandingConfig struct {
	Logo             string          `json:"logo" yaml:"logo" env:"LOGO"`
	Name             string          `json:"name" yaml:"name" env:"NAME"`
	WelcomeText      string          `json:"welcomeText" yaml:"welcomeText" env:"WELCOME_TEXT"`
	ResponseTimeText string          `json:"responseTimeText" yaml:"responseTimeText" env:"RESPONSE_TIME_TEXT"`
	PoweredBy        PoweredByConfig `json:"poweredBy" yaml:"poweredBy" envPrefix:"POWERED_BY_"`
}

// PoweredByConfig is the footer line.
type PoweredByConfig struct {
	Text string `json:"text" yaml:"text" env:"TEXT"`
	Link string `json:"link" yaml:"link" env:"LINK"`
}

// StyleConfig holds hex colors and the launcher position ("left" or "right").
type StyleConfig struct {
	PrimaryColor    string `json:"primaryColor" yaml:"primaryColor" env:"PRIMARY_COLOR"`
	SecondaryColor  string `json:"secondaryColor" yaml:"secondaryColor" env:"SECONDARY_COLOR"`
	Position        string `json:"position" yaml:"position" env:"POSITION"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor" env:"BACKGROUND_COLOR"`
	FontColor       string `json:"fontColor" yaml:"fontColor" env:"FONT_COLOR"`
}

// BehaviorConfig controls auto-open.
type BehaviorConfig struct {
	AutoOpenDelaySeconds float64     `json:"autoOpenDelaySeconds" yaml:"autoOpenDelaySeconds" env:"AUTO_OPEN_DELAY_SECONDS"`
	OpenOnHash           HashTrigger `json:"openOnHash" yaml:"openOnHash" env:"OPEN_ON_HASH"`
}

// AutoOpenDelay returns the auto-open delay, zero when disabled.
func (b BehaviorConfig) AutoOpenDelay() time.Duration {
	if b.AutoOpenDelaySeconds <= 0 {
		return 0
	}
	return time.Duration(b.AutoOpenDelaySeconds * float64(time.Second))
}

// ThinkingConfig bounds the delay between indicator phases.
type ThinkingConfig struct {
	MinDelay Duration `json:"minDelay" yaml:"minDelay" env:"MIN_DELAY"`
	MaxDelay Duration `json:"maxDelay" yaml:"maxDelay" env:"MAX_DELAY"`
}

// Duration wraps time.Duration. It decodes from a Go duration string
// ("1.5s") or a bare number of milliseconds.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(time.Duration(ms * float64(time.Millisecond)))
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		return d.UnmarshalText([]byte(x))
	case float64:
		*d = Duration(time.Duration(x * float64(time.Millisecond)))
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// HashTrigger is behavior.openOnHash: either a hash to match, or the legacy
// boolean true meaning "any non-empty hash".
type HashTrigger struct {
	Any  bool
	Hash string
}

// Enabled reports whether any hash can open the chat.
func (h HashTrigger) Enabled() bool {
	return h.Any || normalizeHash(h.Hash) != ""
}

// Matches reports whether the launch hash should open the chat.
func (h HashTrigger) Matches(current string) bool {
	current = normalizeHash(current)
	if current == "" {
		return false
	}
	if target := normalizeHash(h.Hash); target != "" {
		return current == target
	}
	return h.Any
}

func normalizeHash(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

func (h *HashTrigger) UnmarshalText(b []byte) error {
	switch s := strings.TrimSpace(string(b)); s {
	case "true":
		*h = HashTrigger{Any: true}
	case "false", "":
		*h = HashTrigger{}
	default:
		*h = HashTrigger{Hash: s}
	}
	return nil
}

func (h *HashTrigger) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*h = HashTrigger{Any: x}
	case string:
		*h = HashTrigger{Hash: x}
	case nil:
		*h = HashTrigger{}
	default:
		return fmt.Errorf("openOnHash must be a string or boolean, got %s", b)
	}
	return nil
}

func (h *HashTrigger) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("openOnHash must be a string or boolean")
	}
	if node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*h = HashTrigger{Any: b}
		return nil
	}
	*h = HashTrigger{Hash: node.Value}
	return nil
}

func (h HashTrigger) MarshalJSON() ([]byte, error) {
	if h.Any {
		return []byte("true"), nil
	}
	return json.Marshal(h.Hash)
}

func (h HashTrigger) MarshalYAML() (any, error) {
	if h.Any {
		return true, nil
	}
	return h.Hash, nil
}
