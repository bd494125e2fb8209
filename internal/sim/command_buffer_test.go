package sim

import (
	"testing"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
)

func TestCommandBufferWraparound(t *testing.T) {
	buffer := NewCommandBuffer(3, nil)
	cmds := []Command{
		{ActorID: "a"},
		{ActorID: "b"},
		{ActorID: "c"},
	}
	for _, cmd := range cmds {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed for %+v", cmd)
		}
	}
	if buffer.Push(Command{ActorID: "overflow"}) {
		t.Fatalf("expected push to fail when buffer full")
	}
	drained := buffer.Drain()
	if len(drained) != len(cmds) {
		t.Fatalf("expected %d commands, got %d", len(cmds), len(drained))
	}
	for i, cmd := range drained {
		if cmd.ActorID != cmds[i].ActorID {
			t.Fatalf("expected drain order %v, got %v", cmds[i].ActorID, cmd.ActorID)
		}
	}
	for _, cmd := range []Command{{ActorID: "d"}, {ActorID: "e"}} {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed after drain for %+v", cmd)
		}
	}
	wrapped := buffer.Drain()
	if len(wrapped) != 2 || wrapped[0].ActorID != "d" || wrapped[1].ActorID != "e" {
		t.Fatalf("unexpected order after wraparound: %+v", wrapped)
	}
}

func TestCommandBufferRecordsOccupancyAndOverflow(t *testing.T) {
	metrics := &telemetry.Counters{}
	buffer := NewCommandBuffer(1, metrics)
	buffer.Push(Command{ActorID: "one"})
	buffer.Push(Command{ActorID: "two"})

	snapshot := metrics.Snapshot()
	if snapshot[commandBufferOccupancyMetricKey] != 1 {
		t.Fatalf("expected occupancy 1, got %d", snapshot[commandBufferOccupancyMetricKey])
	}
	if snapshot[commandBufferOverflowMetricKey] != 1 {
		t.Fatalf("expected one overflow, got %d", snapshot[commandBufferOverflowMetricKey])
	}
	buffer.Drain()
	if got := metrics.Snapshot()[commandBufferOccupancyMetricKey]; got != 0 {
		t.Fatalf("expected occupancy reset, got %d", got)
	}
}
