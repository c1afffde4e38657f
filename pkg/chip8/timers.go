package chip8

import "time"

// UpdateTimers advances the 60 Hz timer clock to now. Each time a full
// TimerInterval has elapsed since the previous tick, every nonzero timer is
// decremented by exactly one. The clock never catches up more than one tick
// per call; if it fell further behind it restarts from now.
// It reports whether a tick happened, which hosts use as their frame clock.
func (m *Machine) UpdateTimers(now time.Time) bool {
	if m.lastTick.IsZero() {
		m.lastTick = now
		return false
	}
	if now.Sub(m.lastTick) < m.TimerInterval {
		return false
	}

	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.ST--
	}

	m.lastTick = m.lastTick.Add(m.TimerInterval)
	if now.Sub(m.lastTick) >= m.TimerInterval {
		m.lastTick = now
	}
	return true
}

// ResetTimerClock restarts the timer clock at now without ticking.
func (m *Machine) ResetTimerClock(now time.Time) {
	m.lastTick = now
}
