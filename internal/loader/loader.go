package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/logging"
	"github.com/mcncl/jsonview/internal/models"
)

// Source retrieves one document.
type Source interface {
	Retrieve(ctx context.Context) (models.Value, error)
	// Describe names the source for display, e.g. its URL.
	Describe() string
}

// Loader owns the fetch lifecycle of one document: each activation issues a
// single retrieval and moves Idle -> Loading -> Success | Error. Once an
// activation is deactivated, or replaced by a new one, its retrieval can no
// longer change the state.
type Loader struct {
	source Source
	logger *slog.Logger

	mu      sync.Mutex
	state   LoadState
	current *activation
}

// activation is the cancellation token of one retrieval.
type activation struct {
	id        uuid.UUID
	started   time.Time
	cancelled bool
	cancel    context.CancelFunc
	updates   chan LoadState
	settled   chan struct{}
	done      chan struct{} // closed once the retrieval goroutine exits
	closed    bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an idle Loader reading from source.
func New(source Source, options ...Option) *Loader {
	l := &Loader{
		source: source,
		logger: logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// State returns the current state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Activate starts a fresh retrieval, deactivating any previous one, and
// returns the states of this activation: Loading, then Success or Error. The
// channel is closed after the terminal state or on deactivation, whichever
// comes first. Any previously loaded value is discarded immediately.
func (l *Loader) Activate(ctx context.Context) <-chan LoadState {
	l.mu.Lock()
	l.deactivateLocked()

	reqCtx, cancel := context.WithCancel(ctx)
	act := &activation{
		id:      uuid.New(),
		started: time.Now(),
		cancel:  cancel,
		updates: make(chan LoadState, 2),
		settled: make(chan struct{}),
		done:    make(chan struct{}),
	}
	l.current = act
	l.state = LoadState{Phase: Loading}
	act.updates <- l.state
	l.mu.Unlock()

	l.logger.Debug("activation started", "activation", act.id, "source", l.source.Describe())
	go l.run(WithActivationID(reqCtx, act.id), act)
	return act.updates
}

// Deactivate withdraws interest in the current activation. The in-flight
// retrieval is cancelled and whatever it later returns is discarded; the
// state stays as it was.
func (l *Loader) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deactivateLocked()
}

func (l *Loader) deactivateLocked() {
	act := l.current
	if act == nil || act.cancelled {
		return
	}
	act.cancelled = true
	act.cancel()
	act.close()
	l.logger.Debug("activation deactivated", "activation", act.id, "phase", l.state.Phase)
}

// Wait blocks until the current activation settles, by reaching a terminal
// state or by being deactivated, and returns the state at that point.
func (l *Loader) Wait(ctx context.Context) (LoadState, error) {
	l.mu.Lock()
	act := l.current
	l.mu.Unlock()
	if act == nil {
		return l.State(), nil
	}

	select {
	case <-act.settled:
		return l.State(), nil
	case <-ctx.Done():
		return l.State(), ctx.Err()
	}
}

// Load activates and waits for the result.
func (l *Loader) Load(ctx context.Context) LoadState {
	l.Activate(ctx)
	state, err := l.Wait(ctx)
	if err != nil {
		l.Deactivate()
	}
	return state
}

func (l *Loader) run(ctx context.Context, act *activation) {
	defer close(act.done)
	value, err := l.source.Retrieve(ctx)
	if err != nil {
		l.transition(act, LoadState{Phase: Error, Err: err})
		return
	}
	l.transition(act, LoadState{Phase: Success, Value: value})
}

// transition applies the terminal state of act unless act was deactivated or
// superseded.
func (l *Loader) transition(act *activation, next LoadState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	elapsed := time.Since(act.started)
	if act.cancelled || l.current != act {
		l.logger.Debug("discarding late result", "activation", act.id, "phase", next.Phase, "elapsed", elapsed)
		return
	}

	l.state = next
	act.updates <- next
	act.close()
	act.cancel()

	if next.Phase == Error {
		l.logger.Warn("load failed",
			"activation", act.id,
			"category", errors.TypeOf(next.Err),
			"error", next.Err,
			"elapsed", elapsed,
		)
		return
	}
	l.logger.Debug("load succeeded", "activation", act.id, "kind", next.Value.Kind, "elapsed", elapsed)
}

func (a *activation) close() {
	if a.closed {
		return
	}
	a.closed = true
	close(a.updates)
	close(a.settled)
}

type activationKey struct{}

// WithActivationID returns a context carrying the id of the activation that
// issued a retrieval.
func WithActivationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, activationKey{}, id)
}

// ActivationID returns the activation id carried by ctx.
func ActivationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(activationKey{}).(uuid.UUID)
	return id, ok
}
