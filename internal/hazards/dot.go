package hazards

import "strings"

const (
	wireDotKey    = "wire"
	fireDotPrefix = "fire:"
)

func fireDotKey(poolID string) string {
	return fireDotPrefix + poolID
}

// refreshDot starts a DOT entry or resets the duration of the existing one.
// The tick phase of an existing entry is kept so refreshing never deals an
// extra tick.
func (s *actorState) refreshDot(key string, dps, duration, interval float64) {
	if interval <= 0 {
		interval = duration
	}
	if d, ok := s.dots[key]; ok {
		d.DPS = dps
		d.TickInterval = interval
		d.Remaining = duration
		return
	}
	s.dots[key] = &DotEntry{
		Key:          key,
		DPS:          dps,
		TickInterval: interval,
		Remaining:    duration,
		NextTick:     interval,
	}
}

func (s *actorState) hasFireDot() bool {
	for key := range s.dots {
		if strings.HasPrefix(key, fireDotPrefix) {
			return true
		}
	}
	return false
}

// advanceDots ticks every entry by dt and applies the damage that came due.
// Expired entries are dropped after their last due tick.
func (s *actorState) advanceDots(a Actor, dt float64) {
	for key, d := range s.dots {
		d.Remaining -= dt
		d.NextTick -= dt
		for d.TickInterval > 0 && d.NextTick <= epsilon {
			// Ticks that came due after the entry expired are dropped.
			if d.Remaining-d.NextTick < -epsilon {
				break
			}
			if a.Alive() {
				a.Damage(d.DPS*d.TickInterval, key)
			}
			d.NextTick += d.TickInterval
		}
		if d.Remaining <= epsilon {
			delete(s.dots, key)
		}
	}
}
