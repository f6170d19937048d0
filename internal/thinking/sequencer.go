package thinking

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/nocodecreative/n8nchat/internal/transcript"
)

// State is the sequencer's display phase.
type State int

const (
	StateIdle State = iota
	StateDots
	StateWord1
	StateWord2
)

func (s State) String() string {
	switch s {
	case StateDots:
		return "dots"
	case StateWord1:
		return "word1"
	case StateWord2:
		return "word2"
	default:
		return "idle"
	}
}

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d on another goroutine. fn must not be
// invoked before AfterFunc returns. A nil Timer means scheduling was refused.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemScheduler schedules on the runtime timer heap.
var SystemScheduler Scheduler = clockScheduler{}

// Surface is the message list the indicator is drawn into.
type Surface interface {
	Append(m transcript.Message) transcript.ID
	Remove(id transcript.ID) bool
	RemoveRole(role transcript.Role) int
}

// Options configures a Sequencer.
type Options struct {
	Words     []string // defaults to DefaultWords
	Delays    Range    // defaults to DefaultRange
	Scheduler Scheduler
	Rand      *rand.Rand
	Logger    *slog.Logger
}

// Sequencer cycles the thinking indicator through dots, two words, and back
// to dots. At most one indicator message and one pending timer exist at a time.
type Sequencer struct {
	surface Surface
	words   []string
	delays  Range
	sched   Scheduler
	log     *slog.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	state   State
	node    transcript.ID
	pending Timer
	gen     uint64
	picked  [2]string
}

// NewSequencer creates an idle sequencer drawing into surface.
func NewSequencer(surface Surface, opts Options) *Sequencer {
	if len(opts.Words) == 0 {
		opts.Words = DefaultWords
	}
	if opts.Delays == (Range{}) {
		opts.Delays = DefaultRange
	}
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler
	}
	if opts.Rand == nil {
		opts.Rand = NewRand()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Sequencer{
		surface: surface,
		words:   opts.Words,
		delays:  opts.Delays,
		sched:   opts.Scheduler,
		rng:     opts.Rand,
		log:     opts.Logger,
	}
}

// Start tears down any running lifecycle and shows dots immediately.
func (s *Sequencer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()
	s.gen++

	a, b := PickTwoDistinct(s.rng, s.words)
	s.picked = [2]string{a, b}

	s.showLocked(StateDots, dots())
	s.scheduleLocked(StateWord1)
}

// Stop cancels any pending transition and removes every indicator message.
// Calling it while idle is a no-op.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()
	s.gen++
}

// Configure replaces the word pool and delay bounds. A running lifecycle
// keeps its picked words; the next Start uses the new pool.
func (s *Sequencer) Configure(words []string, delays Range) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(words) > 0 {
		s.words = append([]string(nil), words...)
	}
	if delays != (Range{}) {
		s.delays = delays
	}
}

// State returns the current phase.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether an indicator lifecycle is running.
func (s *Sequencer) Active() bool {
	return s.State() != StateIdle
}

func (s *Sequencer) advance(gen uint64, next State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Fired after Stop or a newer Start.
	if gen != s.gen || s.state == StateIdle {
		return
	}
	s.pending = nil

	switch next {
	case StateWord1:
		s.showLocked(StateWord1, word(s.picked[0]))
		s.scheduleLocked(StateWord2)
	case StateWord2:
		s.showLocked(StateWord2, word(s.picked[1]))
		s.scheduleLocked(StateDots)
	case StateDots:
		s.showLocked(StateDots, dots())
	}
}

func (s *Sequencer) scheduleLocked(next State) {
	delay := s.delays.Random(s.rng)
	gen := s.gen
	t := s.sched.AfterFunc(delay, func() { s.advance(gen, next) })
	if t == nil {
		s.log.Debug("thinking indicator timer refused, holding current phase", "phase", s.state.String())
		return
	}
	s.pending = t
}

func (s *Sequencer) showLocked(state State, m transcript.Message) {
	if s.node != 0 {
		s.surface.Remove(s.node)
	}
	s.node = s.surface.Append(m)
	s.state = state
}

func (s *Sequencer) teardownLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	if s.node != 0 {
		s.surface.Remove(s.node)
		s.node = 0
	}
	// Sweep indicators the sequencer lost track of.
	s.surface.RemoveRole(transcript.RoleThinking)
	s.state = StateIdle
}

func dots() transcript.Message {
	return transcript.Message{Role: transcript.RoleThinking, Indicator: transcript.IndicatorDots, Text: "..."}
}

func word(text string) transcript.Message {
	return transcript.Message{Role: transcript.RoleThinking, Indicator: transcript.IndicatorWord, Text: text}
}
