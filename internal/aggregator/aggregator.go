// Package aggregator implements the central validation, arbitration, and
// history/statistics hub that every producer talks to.
package aggregator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/autobot/roboplane/internal/command"
	"github.com/autobot/roboplane/internal/domain"
	"github.com/autobot/roboplane/internal/logger"
	"github.com/autobot/roboplane/internal/roboerr"
	"github.com/autobot/roboplane/internal/transport"
)

/*
Aggregator is the single entry point for all producers.

Responsibility:
  - validate and normalize raw intents
  - record every outcome in Stats and, on acceptance, in History
  - forward accepted intents to the actuator over the command channel,
    bounded by a transport timeout

Arbitration is last-writer-wins: there is no queue here, only replacement.
The actuator's Executor is what actually preempts; this type's job is
purely to validate, record, and forward.
*/
type Aggregator struct {
	log     *logger.Logger
	client  transport.CommandClient
	stats   *domain.Stats
	history *domain.History
	tracer  trace.Tracer
}

func New(client transport.CommandClient, historyCapacity int, log *logger.Logger) *Aggregator {
	return &Aggregator{
		log:     log.With("component", "Aggregator"),
		client:  client,
		stats:   domain.NewStats(),
		history: domain.NewHistory(historyCapacity),
		tracer:  otel.Tracer("github.com/autobot/roboplane/internal/aggregator"),
	}
}

// SubmitResult is the outcome of Submit.
type SubmitResult struct {
	IntentID   string
	Accepted   bool
	Normalized string
	Message    string
	Forwarded  bool
}

// Submit validates raw, records the outcome, and — on acceptance — forwards
// the normalized intent to the actuator.
func (a *Aggregator) Submit(ctx context.Context, raw string, source domain.Source, priority domain.Priority) SubmitResult {
	ctx, span := a.tracer.Start(ctx, "Aggregator.Submit")
	defer span.End()

	intentID := uuid.NewString()
	span.SetAttributes(attribute.String("intent.id", intentID), attribute.String("intent.source", string(source)))

	if !domain.ValidSource(source) {
		source = domain.SourceUnknown
	}
	if !domain.ValidPriority(priority) {
		priority = domain.PriorityNormal
	}

	normalized, verr := Validate(raw)
	if verr != nil {
		a.stats.RecordError()
		a.log.Warn("command rejected", "intent_id", intentID, "raw", raw, "source", source, "reason", verr.Error())
		span.SetStatus(codes.Error, verr.Error())
		return SubmitResult{IntentID: intentID, Accepted: false, Message: verr.Error()}
	}

	intent := domain.Intent{
		ID:         intentID,
		Raw:        raw,
		Normalized: normalized,
		Source:     source,
		Priority:   priority,
		Timestamp:  time.Now(),
	}
	a.stats.RecordAccept(intent.Source, intent.Normalized, intent.Timestamp)
	a.history.Append(intent.ToHistoryEntry())
	a.log.Info("command accepted", "intent_id", intentID, "normalized", normalized, "source", source, "priority", priority)

	reply, err := a.client.Send(ctx, transport.CommandRequest{Cmd: normalized})
	if err != nil {
		// Forwarding errors are surfaced as-is; the intent is still
		// recorded as accepted-but-undelivered.
		a.log.Error("forward to actuator failed", "intent_id", intentID, "normalized", normalized, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return SubmitResult{
			IntentID:   intentID,
			Accepted:   true,
			Normalized: normalized,
			Forwarded:  false,
			Message:    roboerr.Transport("actuator unreachable: "+err.Error(), err).Error(),
		}
	}

	return SubmitResult{
		IntentID:   intentID,
		Accepted:   true,
		Normalized: normalized,
		Forwarded:  reply.Forwarded || reply.Status == transport.StatusOK,
		Message:    reply.Message,
	}
}

func (a *Aggregator) Stats() domain.StatsSnapshot {
	return a.stats.Snapshot()
}

func (a *Aggregator) Recent(n int) []domain.HistoryEntry {
	return a.history.Recent(n)
}

// Validate applies the normative acceptance rules for a raw intent string,
// returning the canonical normalized form or a rejection error.
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", roboerr.Validation("Invalid command")
	}

	normalized := normalizeFirstToken(trimmed)

	if strings.HasPrefix(normalized, "seq ") {
		return normalized, nil
	}

	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return "", roboerr.Validation("Invalid command")
	}

	head := fields[0]
	if idx := strings.IndexByte(head, ':'); idx >= 0 {
		head = head[:idx]
	}

	if !command.ValidKind(command.Kind(head)) {
		return "", roboerr.Validation("Invalid command")
	}

	return normalized, nil
}

// normalizeFirstToken strips surrounding whitespace (already done by the
// caller) and lowercases only the first whitespace-delimited token.
func normalizeFirstToken(trimmed string) string {
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return strings.ToLower(trimmed)
	}
	return strings.ToLower(trimmed[:idx]) + trimmed[idx:]
}
