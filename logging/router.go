package logging

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

const (
	defaultIntake     = 512
	minOutletBuffer   = 32
	maxOutletBuffer   = 1024
	defaultRetryBase  = time.Second
	defaultRetryLimit = 32 * time.Second
	defaultDropWarn   = 5 * time.Second
)

// Router stamps published events and hands them to one outlet per sink.
// Publish never blocks the tick: an event that does not fit the intake is
// counted and dropped.
type Router struct {
	clock    Clock
	fallback zerolog.Logger
	minSev   Severity
	fields   map[string]any

	intake  chan Event
	outlets []*outlet
	stop    chan struct{}
	done    sync.WaitGroup
	closed  atomic.Bool

	retryBase  time.Duration
	retryLimit time.Duration
	dropWarn   throttle

	routed  atomic.Uint64
	dropped atomic.Uint64
}

// SinkStats counts what one sink did with the events routed to it.
type SinkStats struct {
	Written uint64
	Failed  uint64
	Dropped uint64
}

type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
	Sinks        map[string]SinkStats
}

// RouterOption customises router construction.
type RouterOption func(*Router)

// WithFallbackLogger replaces the stderr logger used for router diagnostics.
func WithFallbackLogger(logger zerolog.Logger) RouterOption {
	return func(r *Router) {
		r.fallback = logger
	}
}

// WithRetryBackoff sets how long a failing sink rests before its next write.
// The rest doubles per consecutive failure up to limit.
func WithRetryBackoff(base, limit time.Duration) RouterOption {
	return func(r *Router) {
		if base > 0 {
			r.retryBase = base
		}
		if limit >= r.retryBase {
			r.retryLimit = limit
		}
	}
}

func NewRouter(clock Clock, cfg Config, namedSinks []NamedSink, opts ...RouterOption) (*Router, error) {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	intake := cfg.BufferSize
	if intake <= 0 {
		intake = defaultIntake
	}
	warnEvery := cfg.DropWarnInterval
	if warnEvery <= 0 {
		warnEvery = defaultDropWarn
	}
	r := &Router{
		clock:      clock,
		fallback:   zerolog.New(os.Stderr).With().Timestamp().Str("component", "logging").Logger(),
		minSev:     cfg.MinimumSeverity,
		fields:     cfg.CloneFields(),
		intake:     make(chan Event, intake),
		stop:       make(chan struct{}),
		retryBase:  defaultRetryBase,
		retryLimit: defaultRetryLimit,
		dropWarn:   throttle{every: warnEvery},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	buffer := min(max(intake, minOutletBuffer), maxOutletBuffer)
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		r.outlets = append(r.outlets, &outlet{
			name:   named.Name,
			sink:   named.Sink,
			events: make(chan Event, buffer),
			router: r,
		})
	}

	r.done.Add(1 + len(r.outlets))
	go r.dispatch()
	for _, o := range r.outlets {
		go o.run()
	}
	return r, nil
}

// Publish queues event for delivery. Untyped events and events published
// after Close are ignored.
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || r.closed.Load() {
		return
	}
	select {
	case r.intake <- event:
	default:
		r.dropped.Add(1)
		if r.dropWarn.allow(r.clock.Now()) {
			r.fallback.Warn().Str("type", string(event.Type)).Uint64("tick", event.Tick).Uint64("dropped", r.dropped.Load()).Msg("intake full, dropping event")
		}
	}
}

func (r *Router) dispatch() {
	defer func() {
		for _, o := range r.outlets {
			close(o.events)
		}
		r.done.Done()
	}()
	for {
		select {
		case event := <-r.intake:
			r.route(event)
		case <-r.stop:
			for {
				select {
				case event := <-r.intake:
					r.route(event)
				default:
					return
				}
			}
		}
	}
}

func (r *Router) route(event Event) {
	if event.Severity < r.minSev {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	if len(r.fields) > 0 {
		event = mergeFields(event, r.fields)
	}
	r.routed.Add(1)
	for _, o := range r.outlets {
		o.offer(event)
	}
}

// Close flushes queued events, then closes every sink. It returns ctx's
// error if the outlets do not drain in time or Close was already called.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		<-ctx.Done()
		return ctx.Err()
	}
	close(r.stop)

	drained := make(chan struct{})
	go func() {
		r.done.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, o := range r.outlets {
		if err := o.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:  r.routed.Load(),
		DroppedTotal: r.dropped.Load(),
		Sinks:        make(map[string]SinkStats, len(r.outlets)),
	}
	for _, o := range r.outlets {
		stats.Sinks[o.name] = SinkStats{
			Written: o.written.Load(),
			Failed:  o.failed.Load(),
			Dropped: o.dropped.Load(),
		}
	}
	return stats
}

// Sink returns the sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, o := range r.outlets {
		if o.name == name {
			return o.sink
		}
	}
	return nil
}

// outlet owns one sink. Writes are serialised on its goroutine; after a
// failure the outlet rests before the next write unless the router is
// stopping.
type outlet struct {
	name   string
	sink   Sink
	events chan Event
	router *Router

	streak int
	rest   time.Duration

	written atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

func (o *outlet) offer(event Event) {
	select {
	case o.events <- CloneEvent(event):
	default:
		o.dropped.Add(1)
		o.router.fallback.Warn().Str("sink", o.name).Str("type", string(event.Type)).Msg("sink backlog full, dropping event")
	}
}

func (o *outlet) run() {
	defer o.router.done.Done()
	for event := range o.events {
		o.wait()
		if err := o.sink.Write(event); err != nil {
			o.failed.Add(1)
			o.backoff(err)
			continue
		}
		o.written.Add(1)
		o.streak = 0
		o.rest = 0
	}
}

func (o *outlet) wait() {
	if o.rest <= 0 {
		return
	}
	timer := time.NewTimer(o.rest)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-o.router.stop:
	}
}

func (o *outlet) backoff(err error) {
	o.streak++
	rest := o.router.retryBase << min(o.streak-1, 16)
	if rest > o.router.retryLimit || rest <= 0 {
		rest = o.router.retryLimit
	}
	o.rest = rest
	o.router.fallback.Error().Err(err).Str("sink", o.name).Int("streak", o.streak).Dur("retry", rest).Msg("sink write failed")
}

// throttle admits at most one call per interval.
type throttle struct {
	every time.Duration
	next  atomic.Int64
}

func (t *throttle) allow(now time.Time) bool {
	at := now.UnixNano()
	next := t.next.Load()
	if next != 0 && at < next {
		return false
	}
	return t.next.CompareAndSwap(next, at+t.every.Nanoseconds())
}
