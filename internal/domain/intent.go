// Package domain holds the data shared between the aggregator and the
// actuator: intents, history, and statistics.
package domain

import "time"

// Source identifies which kind of producer emitted an Intent.
type Source string

const (
	SourceVision     Source = "vision"
	SourceController Source = "controller"
	SourceManual     Source = "manual"
	SourceSequence   Source = "sequence"
	SourceUnknown    Source = "unknown"
)

// ValidSource reports whether s is one of the enumerated producer sources.
func ValidSource(s Source) bool {
	switch s {
	case SourceVision, SourceController, SourceManual, SourceSequence, SourceUnknown:
		return true
	default:
		return false
	}
}

// Priority is advisory metadata recorded alongside an Intent; it never gates
// arbitration. Arbitration is last-writer-wins, not a priority queue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}

// Intent is a textual motion request accepted from a producer. It is
// immutable once created.
type Intent struct {
	ID         string    `json:"id"`
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	Source     Source    `json:"source"`
	Priority   Priority  `json:"priority"`
	Timestamp  time.Time `json:"ts"`
}

// ToHistoryEntry converts an accepted Intent into the record stored in
// History.
func (i Intent) ToHistoryEntry() HistoryEntry {
	return HistoryEntry{
		ID:         i.ID,
		Timestamp:  i.Timestamp.Unix(),
		Raw:        i.Raw,
		Normalized: i.Normalized,
		Source:     i.Source,
		Priority:   i.Priority,
	}
}
