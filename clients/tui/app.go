package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nocodecreative/n8nchat/clients/tui/atoms"
	"github.com/nocodecreative/n8nchat/clients/tui/components"
	"github.com/nocodecreative/n8nchat/clients/tui/molecules"
	"github.com/nocodecreative/n8nchat/internal/config"
	"github.com/nocodecreative/n8nchat/internal/conversation"
	"github.com/nocodecreative/n8nchat/internal/transcript"
)

const maxPanelWidth = 72

// Controller is the conversation session the widget drives.
type Controller interface {
	StartNewConversation(ctx context.Context) error
	SendMessage(ctx context.Context, text string) error
	View() conversation.View
}

// Options configures an App.
type Options struct {
	Config     *config.Config
	Controller Controller
	Transcript *transcript.Transcript
	Hash       string // launch hash matched against behavior.openOnHash
	Open       bool   // start with the panel open
	Logger     *slog.Logger
}

// App is the widget model.
// Closed: LAUNCHER. Open: HEADER | BODY | FOOTER, where BODY is either the
// new-conversation screen or CHAT | INPUT.
type App struct {
	ctx  context.Context
	ctrl Controller
	tr   *transcript.Transcript
	log  *slog.Logger

	theme    Theme
	header   *components.Header
	chat     *components.Chat
	composer molecules.Composer
	wave     atoms.Wave

	autoOpen tea.Cmd

	// Coalesced signals from other goroutines.
	notify  chan struct{}
	configs chan *config.Config

	// State
	open     bool
	starting bool
	notice   string // start failure shown on the new-conversation screen
	inFlight int
	width    int
	height   int
	quitting bool
}

// NewApp creates the widget. ctx bounds webhook calls made from the UI.
func NewApp(ctx context.Context, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	theme := NewTheme(opts.Config)

	a := &App{
		ctx:      ctx,
		ctrl:     opts.Controller,
		tr:       opts.Transcript,
		log:      opts.Logger,
		theme:    theme,
		header:   components.NewHeader(theme.Brand, theme.Styles),
		chat:     components.NewChat(theme.Styles, theme.Markdown),
		composer: molecules.NewComposer(theme.Styles.PromptChar),
		wave:     atoms.NewWave(),
		notify:   make(chan struct{}, 1),
		configs:  make(chan *config.Config, 1),
	}

	behavior := opts.Config.Behavior
	switch {
	case opts.Open:
		a.open = true
	case behavior.OpenOnHash.Matches(opts.Hash):
		a.log.Debug("opening on hash", "hash", opts.Hash)
		a.open = true
	case behavior.AutoOpenDelay() > 0:
		a.autoOpen = tea.Tick(behavior.AutoOpenDelay(), func(time.Time) tea.Msg { return autoOpenMsg{} })
	}

	a.tr.OnChange(a.signalChange)
	a.chat.SetMessages(a.tr.Messages())
	return a
}

// Reconfigure applies a reloaded configuration. Safe to call from any
// goroutine; only the latest pending config is kept.
func (a *App) Reconfigure(cfg *config.Config) {
	for {
		select {
		case a.configs <- cfg:
			return
		default:
			select {
			case <-a.configs:
			default:
			}
		}
	}
}

// signalChange is the transcript listener. It may run under other locks,
// so it never blocks.
func (a *App) signalChange() {
	select {
	case a.notify <- struct{}{}:
	default:
	}
}

// Init starts the listeners, the dots animation and the auto-open timer.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.waitForChange(),
		a.waitForConfig(),
		a.wave.Init(),
		a.composer.Focus(),
		a.autoOpen,
	)
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		if a.open && a.ctrl.View() == conversation.ViewActive {
			var cmd tea.Cmd
			a.chat, cmd = a.chat.Update(msg)
			cmds = append(cmds, cmd)
		}

	case molecules.SubmitMsg:
		a.inFlight++
		cmds = append(cmds, a.send(msg.Content))

	case startedMsg:
		a.starting = false
		if msg.err != nil {
			a.notice = conversation.StartFailedText
			break
		}
		a.notice = ""
		a.composer.Reset()
		a.updateSizes()
		cmds = append(cmds, a.composer.Focus())

	case sentMsg:
		a.inFlight--

	case transcriptChangedMsg:
		a.chat.SetMessages(a.tr.Messages())
		cmds = append(cmds, a.waitForChange())

	case autoOpenMsg:
		if !a.open {
			a.log.Debug("auto-opening chat")
			a.open = true
			cmds = append(cmds, a.composer.Focus())
		}

	case configMsg:
		a.applyConfig(msg.cfg)
		cmds = append(cmds, a.waitForConfig())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.wave, cmd = a.wave.Update(msg)
		a.chat.SetFrame(a.wave.View())
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		a.composer, cmd = a.composer.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		a.quitting = true
		return tea.Quit
	case "ctrl+o":
		if a.open {
			a.close()
			return nil
		}
		a.open = true
		return a.composer.Focus()
	case "esc":
		a.close()
		return nil
	}

	if !a.open {
		if msg.Type == tea.KeyEnter {
			a.open = true
			return a.composer.Focus()
		}
		return nil
	}

	if a.ctrl.View() == conversation.ViewNewConversation {
		if msg.Type == tea.KeyEnter && !a.starting {
			a.starting = true
			a.notice = ""
			return a.start()
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+l":
		a.tr.Clear()
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return cmd
	}

	rows := a.composer.Height()
	var cmd tea.Cmd
	a.composer, cmd = a.composer.Update(msg)
	if a.composer.Height() != rows {
		a.updateSizes()
	}
	return cmd
}

// View renders the launcher or the open panel.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	styles := a.theme.Styles
	if !a.open {
		return components.Launcher(a.theme.Brand, styles, a.theme.Position, a.width, a.height)
	}

	width := a.panelWidth()
	var body string
	if a.ctrl.View() == conversation.ViewNewConversation {
		body = components.Welcome(a.theme.Brand, styles, width, a.starting)
		if a.notice != "" {
			body += "\n" + styles.Error.Padding(0, 2).Render(a.notice)
		}
		body = lipgloss.NewStyle().Height(max(a.height-a.chromeHeight(), 0)).Render(body)
	} else {
		sep := styles.Separator.Render(strings.Repeat("─", max(width, 0)))
		body = lipgloss.JoinVertical(lipgloss.Left, a.chat.View(), sep, a.composer.View())
	}

	parts := []string{a.header.View(), body}
	if footer := components.Footer(a.theme.Brand, styles, width); footer != "" {
		parts = append(parts, footer)
	}
	panel := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.PlaceHorizontal(max(a.width, width), components.Align(a.theme.Position), panel)
}

// close hides the panel. The draft in the input is kept.
func (a *App) close() {
	a.open = false
	a.composer.Blur()
}

// Open reports whether the panel is shown.
func (a *App) Open() bool {
	return a.open
}

func (a *App) start() tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	return func() tea.Msg {
		return startedMsg{err: ctrl.StartNewConversation(ctx)}
	}
}

func (a *App) send(text string) tea.Cmd {
	ctx, ctrl := a.ctx, a.ctrl
	return func() tea.Msg {
		return sentMsg{err: ctrl.SendMessage(ctx, text)}
	}
}

func (a *App) waitForChange() tea.Cmd {
	notify, done := a.notify, a.ctx.Done()
	return func() tea.Msg {
		select {
		case <-notify:
			return transcriptChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (a *App) waitForConfig() tea.Cmd {
	configs, done := a.configs, a.ctx.Done()
	return func() tea.Msg {
		select {
		case cfg := <-configs:
			return configMsg{cfg: cfg}
		case <-done:
			return nil
		}
	}
}

func (a *App) applyConfig(cfg *config.Config) {
	a.theme = NewTheme(cfg)
	a.header.SetBrand(a.theme.Brand, a.theme.Styles)
	a.chat.SetStyles(a.theme.Styles, a.theme.Markdown)
	a.log.Info("theme reloaded")
}

func (a *App) panelWidth() int {
	return min(a.width, maxPanelWidth)
}

// chromeHeight is the header plus the optional footer.
func (a *App) chromeHeight() int {
	if a.theme.Brand.PoweredByText != "" {
		return 2
	}
	return 1
}

func (a *App) updateSizes() {
	width := a.panelWidth()
	inputHeight := 1 + a.composer.Height() // separator + input

	chatHeight := a.height - a.chromeHeight() - inputHeight
	if chatHeight < 3 {
		chatHeight = 3
	}

	a.header.SetWidth(width)
	a.chat.SetSize(width, chatHeight)
	a.composer.SetWidth(width)
}
