package tui

import "github.com/nocodecreative/n8nchat/internal/config"

// transcriptChangedMsg signals that the transcript was mutated.
type transcriptChangedMsg struct{}

// autoOpenMsg fires when the auto-open delay elapses.
type autoOpenMsg struct{}

// startedMsg carries the result of StartNewConversation.
type startedMsg struct {
	err error
}

// sentMsg carries the result of SendMessage.
type sentMsg struct {
	err error
}

// configMsg delivers a reloaded configuration.
type configMsg struct {
	cfg *config.Config
}
