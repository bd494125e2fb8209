package hazards

import "container/heap"

type scheduledKind uint8

const (
	scheduledFuseTick scheduledKind = iota + 1
	scheduledChainDetonation
)

// scheduledEvent is a deferred action against a barrel. Handlers look the
// barrel up again when the event fires.
type scheduledEvent struct {
	At       float64
	Kind     scheduledKind
	BarrelID string
	SourceID string
	Step     int
	seq      uint64
}

type eventQueue []scheduledEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].At != q[j].At {
		return q[i].At < q[j].At
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(scheduledEvent)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type scheduler struct {
	queue eventQueue
	seq   uint64
}

func (s *scheduler) schedule(ev scheduledEvent) {
	s.seq++
	ev.seq = s.seq
	heap.Push(&s.queue, ev)
}

// popDue removes and returns the earliest event due at or before now.
func (s *scheduler) popDue(now float64) (scheduledEvent, bool) {
	if len(s.queue) == 0 || s.queue[0].At > now+epsilon {
		return scheduledEvent{}, false
	}
	return heap.Pop(&s.queue).(scheduledEvent), true
}

func (s *scheduler) pending() int {
	return len(s.queue)
}

// runScheduled drains every due event in time order. Events scheduled while
// draining run in the same pass when they are already due.
func (m *Manager) runScheduled() {
	for {
		ev, ok := m.schedule.popDue(m.clock)
		if !ok {
			return
		}
		switch ev.Kind {
		case scheduledFuseTick:
			m.handleFuseTick(ev)
		case scheduledChainDetonation:
			m.handleChainDetonation(ev)
		default:
			m.logger.Printf("error: hazards: unknown scheduled event kind %d", ev.Kind)
		}
	}
}
