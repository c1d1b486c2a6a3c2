// Package intercept suppresses error events that match noise patterns.
//
// An Interceptor receives uncaught-error style events from the host, asks
// the shared Matcher whether they are noise, and either claims them
// (recording the decision in Stats) or lets them propagate untouched.
//
// Interceptors compose: a broader interceptor defers to the classification
// of earlier, narrower ones so an event is never claimed or counted twice.
// Every failure path degrades to non-suppression; over-suppression hides
// real defects, so uncertainty always passes the event through.
package intercept

import (
	"fmt"
	"sync"

	"github.com/bimmerbailey/quell/internal/match"
	"github.com/bimmerbailey/quell/internal/sanitize"
)

// FailureLogger receives internal interceptor failures. The sanitizing
// proxy logger satisfies it.
type FailureLogger interface {
	Error(args ...any)
}

// ErrorEvent is the best-effort text form of an uncaught error or rejected
// async operation.
type ErrorEvent struct {
	Message string
	Stack   string
}

// ClassifyFunc reports whether an interceptor claims an event. It must be
// side-effect free.
type ClassifyFunc func(ErrorEvent) bool

// Interceptor classifies and suppresses matching error events.
type Interceptor struct {
	name      string
	matcher   *match.Matcher
	sanitizer *sanitize.Sanitizer
	stats     *Stats

	defersTo []ClassifyFunc

	logger   FailureLogger
	failOnce sync.Once
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// DefersTo makes this interceptor yield to earlier interceptors: when any
// of the given classification funcs claims an event, this interceptor does
// not re-suppress or re-count it.
func DefersTo(fns ...ClassifyFunc) Option {
	return func(i *Interceptor) {
		i.defersTo = append(i.defersTo, fns...)
	}
}

// WithFailureLogger sets the logger used to report internal failures. The
// report goes through the sanitizing proxy, and at most once per
// interceptor.
func WithFailureLogger(logger FailureLogger) Option {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// New creates an Interceptor over the shared matcher, sanitizer, and stats.
func New(name string, matcher *match.Matcher, sanitizer *sanitize.Sanitizer, stats *Stats, opts ...Option) *Interceptor {
	i := &Interceptor{
		name:      name,
		matcher:   matcher,
		sanitizer: sanitizer,
		stats:     stats,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Name returns the interceptor's name.
func (i *Interceptor) Name() string { return i.name }

// Claims reports whether this interceptor's pattern set matches the event.
// It has no side effects and fails open: a matcher panic yields false.
func (i *Interceptor) Claims(ev ErrorEvent) (claimed bool) {
	defer func() {
		if r := recover(); r != nil {
			i.reportFailure(fmt.Errorf("classification panicked: %v", r))
			claimed = false
		}
	}()
	return i.matcher.ClassifyError(ev.Message, ev.Stack).Suppressed
}

// Handle processes one error event. It returns true when the event was
// suppressed and recorded; false means the event must propagate unchanged.
//
// Events claimed by a deferred-to interceptor are left alone so they are
// neither double-suppressed nor double-counted.
func (i *Interceptor) Handle(ev ErrorEvent) (suppressed bool) {
	defer func() {
		if r := recover(); r != nil {
			i.reportFailure(fmt.Errorf("handling panicked: %v", r))
			suppressed = false
		}
	}()

	for _, claims := range i.defersTo {
		if claims(ev) {
			return false
		}
	}

	if !i.Claims(ev) {
		return false
	}

	i.stats.Record(i.sanitizer.Sanitize(ev.Message))
	return true
}

// Stats returns a snapshot of the suppression counters.
func (i *Interceptor) Stats() Snapshot {
	return i.stats.Snapshot()
}

// ClearStats resets the suppression counters.
func (i *Interceptor) ClearStats() {
	i.stats.Clear()
}

// AddPattern registers an additional classification pattern at runtime.
func (i *Interceptor) AddPattern(category match.Category, expr string) error {
	return i.matcher.Add(category, "runtime", expr)
}

// reportFailure logs an internal failure once, through the sanitizing path.
func (i *Interceptor) reportFailure(err error) {
	if i.logger == nil {
		return
	}
	i.failOnce.Do(func() {
		i.logger.Error("interceptor internal failure", i.name, err.Error())
	})
}

// Dispatcher fans error events out to registered interceptors in order and
// stops at the first one that claims the event, mirroring
// stop-immediate-propagation semantics.
type Dispatcher struct {
	mu           sync.Mutex
	interceptors []*Interceptor
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register attaches an interceptor. Registering the same interceptor twice
// is an idempotent no-op.
func (d *Dispatcher) Register(i *Interceptor) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.interceptors {
		if existing == i {
			return
		}
	}
	d.interceptors = append(d.interceptors, i)
}

// Dispatch offers the event to each interceptor in registration order.
// It returns true when some interceptor suppressed the event; later
// interceptors do not see a claimed event.
func (d *Dispatcher) Dispatch(ev ErrorEvent) bool {
	d.mu.Lock()
	interceptors := make([]*Interceptor, len(d.interceptors))
	copy(interceptors, d.interceptors)
	d.mu.Unlock()

	for _, i := range interceptors {
		if i.Handle(ev) {
			return true
		}
	}
	return false
}
