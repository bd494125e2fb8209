package hazards

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the full hazard state sent to clients for sync.
type Snapshot struct {
	Tick     uint64            `json:"tick" msgpack:"tick"`
	Clock    float64           `json:"clock" msgpack:"clock"`
	Sandbags []Sandbag         `json:"sandbags" msgpack:"sandbags"`
	Wires    []BarbedWire      `json:"wires" msgpack:"wires"`
	Muds     []MudPool         `json:"muds" msgpack:"muds"`
	Fires    []FirePool        `json:"fires" msgpack:"fires"`
	Gases    []GasCanister     `json:"gases" msgpack:"gases"`
	Barrels  []ExplodingBarrel `json:"barrels" msgpack:"barrels"`
	Trenches []Trench          `json:"trenches" msgpack:"trenches"`
}

// Serialize copies every live hazard in collection order.
func (m *Manager) Serialize() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Tick:     m.tick,
		Clock:    m.clock,
		Sandbags: copyAll(m.sandbags),
		Wires:    copyAll(m.wires),
		Muds:     copyAll(m.muds),
		Fires:    copyAll(m.fires),
		Gases:    copyAll(m.gases),
		Barrels:  copyAll(m.barrels),
		Trenches: copyAll(m.trenches),
	}
}

func copyAll[T any](items []*T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

// EncodeSnapshot renders a snapshot as msgpack.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("hazards: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a msgpack snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("hazards: decode snapshot: %w", err)
	}
	return s, nil
}
