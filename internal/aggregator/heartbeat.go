package aggregator

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/autobot/roboplane/internal/transport"
)

/*
HeartbeatMonitor tracks actuator liveness.

last_heartbeat_ts has a single writer (the subscriber goroutine) and many
readers. An atomic int64 of UnixNano is the lighter-weight choice here
since there is nothing else to protect alongside it.
*/
type HeartbeatMonitor struct {
	lastNano  atomic.Int64
	staleAfter time.Duration
}

func NewHeartbeatMonitor(staleAfter time.Duration) *HeartbeatMonitor {
	return &HeartbeatMonitor{staleAfter: staleAfter}
}

// OnHeartbeat is the HeartbeatSubscriber callback: last-seen only moves
// forward, never backward.
func (m *HeartbeatMonitor) OnHeartbeat(hb transport.HeartbeatEnvelope) {
	now := time.Now().UnixNano()
	for {
		cur := m.lastNano.Load()
		if cur >= now {
			return
		}
		if m.lastNano.CompareAndSwap(cur, now) {
			return
		}
	}
}

// Age returns seconds since the last received heartbeat, or +Inf if none
// has ever arrived.
func (m *HeartbeatMonitor) Age() float64 {
	last := m.lastNano.Load()
	if last == 0 {
		return math.Inf(1)
	}
	return time.Since(time.Unix(0, last)).Seconds()
}

// Stale reports whether the observed age exceeds the configured threshold.
// This is a health signal only; it must never gate command acceptance.
func (m *HeartbeatMonitor) Stale() bool {
	return m.Age() > m.staleAfter.Seconds()
}
