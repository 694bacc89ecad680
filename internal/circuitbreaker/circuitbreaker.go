// Package circuitbreaker stops a scheduled collector from downloading
// sources that keep failing, and lets them back in after a cooldown.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// State is the position of a breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned instead of calling the function while a breaker is open.
var ErrOpen = errors.New("source skipped: circuit open")

// Config controls when a breaker opens and how long it stays open.
type Config struct {
	// Consecutive failures before the breaker opens
	FailureThreshold int
	// Time spent open before a single trial call is let through
	Cooldown time.Duration
}

const (
	defaultFailureThreshold = 3
	defaultCooldown         = time.Hour
)

// Breaker tracks consecutive failures of one named dependency.
type Breaker struct {
	name   string
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	trial    bool
}

func newBreaker(name string, cfg Config, logger *slog.Logger, now func() time.Time) *Breaker {
	return &Breaker{
		name:   name,
		cfg:    cfg,
		logger: logger,
		now:    now,
		state:  StateClosed,
	}
}

// Execute calls fn unless the breaker is open. While half-open only one
// caller at a time runs fn; the others get ErrOpen.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrOpen
	}

	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return false
		}
		b.transition(StateHalfOpen)
		b.trial = true
		return true
	default:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.transition(StateClosed)
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.transition(StateOpen)
	}
}

// State reports the current state. An open breaker whose cooldown has
// passed still reports open until the next call.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the breaker and clears its failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.transition(StateClosed)
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) {
	b.trial = false
	if b.state == to {
		return
	}

	from := b.state
	b.state = to
	if to == StateOpen {
		b.openedAt = b.now()
	}

	if b.logger != nil {
		b.logger.Info("circuit breaker state changed",
			"name", b.name,
			"from", from.String(),
			"to", to.String(),
			"failures", b.failures,
		)
	}
}

// Registry hands out one Breaker per name, created on first use.
type Registry struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry creates a Registry. Non-positive config values fall back to
// a threshold of 3 and a cooldown of one hour.
func NewRegistry(cfg Config, logger *slog.Logger) *Registry {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for name.
func (r *Registry) Get(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[name]
	if !ok {
		b = newBreaker(name, r.cfg, r.logger, r.now)
		r.breakers[name] = b
	}
	return b
}

// States returns a snapshot of every known breaker state by name.
func (r *Registry) States() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]State, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.State()
	}
	return out
}
