package domain

import (
	"sync"
	"time"
)

// StatsSnapshot is a read-only, torn-read-free copy of Stats.
type StatsSnapshot struct {
	Total          int64            `json:"total"`
	BySource       map[Source]int64 `json:"by_source"`
	Errors         int64            `json:"errors"`
	LastNormalized string           `json:"last_normalized"`
	LastTimestamp  time.Time        `json:"last_ts"`
}

// Stats tracks running counters for the aggregator's process lifetime.
// Exactly one of RecordAccept / RecordError increments per submitted
// command.
type Stats struct {
	mu             sync.Mutex
	total          int64
	bySource       map[Source]int64
	errors         int64
	lastNormalized string
	lastTimestamp  time.Time
}

func NewStats() *Stats {
	return &Stats{bySource: make(map[Source]int64)}
}

func (s *Stats) RecordAccept(source Source, normalized string, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.bySource[source]++
	s.lastNormalized = normalized
	s.lastTimestamp = ts
}

func (s *Stats) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.errors++
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	bySource := make(map[Source]int64, len(s.bySource))
	for k, v := range s.bySource {
		bySource[k] = v
	}
	return StatsSnapshot{
		Total:          s.total,
		BySource:       bySource,
		Errors:         s.errors,
		LastNormalized: s.lastNormalized,
		LastTimestamp:  s.lastTimestamp,
	}
}
