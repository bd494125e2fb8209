package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a level name onto a Severity. Unknown names fall back to
// info.
func ParseSeverity(name string) Severity {
	switch name {
	case "debug":
		return SeverityDebug
	case "warn", "warning":
		return SeverityWarn
	case "error":
		return SeverityError
	default:
		return SeverityInfo
	}
}

type EntityKind string

const (
	EntityKindUnknown EntityKind = "unknown"
	EntityKindPlayer  EntityKind = "player"
	EntityKindEnemy   EntityKind = "enemy"
	EntityKindTroop   EntityKind = "troop"
	EntityKindSandbag EntityKind = "sandbag"
	EntityKindBarrel  EntityKind = "barrel"
	EntityKindHazard  EntityKind = "hazard"
	EntityKindWorld   EntityKind = "world"
)

type Event struct {
	Type     EventType      `json:"type" msgpack:"type"`
	Tick     uint64         `json:"tick" msgpack:"tick"`
	Time     time.Time      `json:"time" msgpack:"time"`
	Actor    EntityRef      `json:"actor" msgpack:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty" msgpack:"targets,omitempty"`
	Severity Severity       `json:"severity" msgpack:"severity"`
	Category string         `json:"category,omitempty" msgpack:"category,omitempty"`
	Payload  any            `json:"payload,omitempty" msgpack:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty" msgpack:"extra,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id" msgpack:"id"`
	Kind EntityKind `json:"kind" msgpack:"kind"`
}

const (
	CategoryHazards     = "hazards"
	CategoryDestruction = "destruction"
	CategorySystem      = "system"
)

// Publisher is the fire-and-forget sink the simulation reports into.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

// Fanout delivers every event to each non-nil publisher in order.
func Fanout(publishers ...Publisher) Publisher {
	targets := make([]Publisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			targets = append(targets, p)
		}
	}
	switch len(targets) {
	case 0:
		return NopPublisher()
	case 1:
		return targets[0]
	}
	return PublisherFunc(func(ctx context.Context, event Event) {
		for _, p := range targets {
			p.Publish(ctx, event)
		}
	})
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	if len(p.fields) > 0 {
		event = mergeFields(event, p.fields)
	}
	p.next.Publish(ctx, event)
}

// CloneEvent copies the mutable parts of an event so sinks can hold on to it.
func CloneEvent(event Event) Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}

func mergeFields(event Event, fields map[string]any) Event {
	event = CloneEvent(event)
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	return event
}

// WithFields decorates p so every event carries the given extra fields unless
// the event already sets them.
func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldPublisher{next: p, fields: copied}
}

func (e Event) WithExtra(key string, value any) Event {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}
