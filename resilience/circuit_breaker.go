package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is the position of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ErrCircuitOpen is returned without calling the protected function.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig configures a circuit breaker. Zero values take the
// defaults of DefaultCircuitBreakerConfig.
type CircuitBreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int
	// Timeout is the cool-down before an open circuit lets a probe through.
	Timeout time.Duration
	// HalfOpenMaxCalls probes must succeed before the circuit closes.
	HalfOpenMaxCalls int
	// IsFailure reports whether err counts against the upstream. Nil counts
	// every error.
	IsFailure     func(err error) bool
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig opens after 5 failures and probes after 30s.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{Name: name, MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenMaxCalls: 1}
}

func (c *CircuitBreakerConfig) withDefaults() {
	def := DefaultCircuitBreakerConfig(c.Name)
	if c.MaxFailures <= 0 {
		c.MaxFailures = def.MaxFailures
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.HalfOpenMaxCalls <= 0 {
		c.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
}

// CircuitBreaker fails fast while an upstream keeps failing. After Timeout
// it admits up to HalfOpenMaxCalls probes; one failed probe reopens it.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  int       // consecutive, while closed
	probes    int       // admitted, while half-open
	succeeded int       // successful probes, while half-open
	openUntil time.Time // while open
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.withDefaults()
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn()
	cb.record(err != nil && (cb.cfg.IsFailure == nil || cb.cfg.IsFailure(err)))
	return err
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.expire()
	return cb.state
}

// Failures returns the consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the circuit.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.moveTo(StateClosed)
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.expire()

	switch cb.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenMaxCalls {
			return ErrCircuitOpen
		}
		cb.probes++
	}
	return nil
}

func (cb *CircuitBreaker) record(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !failed {
		if cb.state == StateHalfOpen {
			cb.succeeded++
			if cb.succeeded >= cb.cfg.HalfOpenMaxCalls {
				cb.moveTo(StateClosed)
			}
			return
		}
		cb.failures = 0
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.cfg.MaxFailures {
		cb.moveTo(StateOpen)
	}
}

// expire lets an open circuit whose cool-down has passed take probes.
// Callers hold mu.
func (cb *CircuitBreaker) expire() {
	if cb.state == StateOpen && !cb.now().Before(cb.openUntil) {
		cb.moveTo(StateHalfOpen)
	}
}

// moveTo switches state and clears the counters of the state being left.
// Callers hold mu.
func (cb *CircuitBreaker) moveTo(to State) {
	from := cb.state
	cb.probes, cb.succeeded = 0, 0
	switch to {
	case StateClosed:
		cb.failures = 0
	case StateOpen:
		cb.openUntil = cb.now().Add(cb.cfg.Timeout)
	}
	if from == to {
		return
	}
	cb.state = to
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, from, to)
	}
}
