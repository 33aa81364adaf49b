package actuator

import (
	"context"
	"sync"
	"time"

	"github.com/autobot/roboplane/internal/command"
	"github.com/autobot/roboplane/internal/logger"
)

/*
Executor is the single-active-worker motion scheduler.

Invariants:
  - at most one worker goroutine drives pins at any time
  - Submit always cancels the current worker and waits for it to assert the
    stop pattern before the new worker's first pin assertion, so the gap
    between jobs is strictly non-empty
  - Submit never blocks on motion completing; it returns once the new
    worker has been spawned

The job handle (cancel func + done channel) is owned under a single mutex,
never held across a pin-sink call.
*/
type Executor struct {
	cfg  ExecutorConfig
	pins PinSink
	log  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewExecutor(cfg ExecutorConfig, pins PinSink, log *logger.Logger) *Executor {
	return &Executor{
		cfg:  cfg,
		pins: pins,
		log:  log.With("component", "Executor"),
	}
}

// Stop preempts the current job (if any) and asserts the stop pattern. It
// blocks until the stop pattern has been asserted and the job handle is
// cleared.
func (e *Executor) Stop(ctx context.Context) {
	e.preempt()
	_ = e.pins.Assert(ctx, command.StopPattern)
}

// Submit preempts any in-flight job and schedules seq to run in the
// background. It returns immediately once the new worker has started.
func (e *Executor) Submit(ctx context.Context, seq command.Sequence) {
	e.preempt()

	if len(seq.Tokens) == 0 {
		_ = e.pins.Assert(ctx, command.StopPattern)
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	e.mu.Lock()
	e.cancel = cancel
	e.done = done
	e.mu.Unlock()

	go e.runWorker(runCtx, done, seq)
}

// preempt cancels the current job and waits for its worker goroutine to
// return to idle, clearing the handle. It is a no-op when idle.
func (e *Executor) preempt() {
	e.mu.Lock()
	cancel := e.cancel
	done := e.done
	e.cancel = nil
	e.done = nil
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

func (e *Executor) runWorker(ctx context.Context, done chan struct{}, seq command.Sequence) {
	defer close(done)
	defer e.clearIfCurrent(done)
	defer func() { _ = e.pins.Assert(context.Background(), command.StopPattern) }()

	for _, tok := range seq.Tokens {
		if ctx.Err() != nil {
			return
		}

		if tok.Kind == command.StopKind {
			return
		}

		if tok.Kind == command.Sleep {
			d := e.cfg.DurSleepDefault
			if tok.Duration != nil {
				d = time.Duration(*tok.Duration * float64(time.Second))
			}
			if !e.interruptibleSleep(ctx, d) {
				return
			}
			continue
		}

		pattern, ok := command.PinsFor(tok.Kind)
		if !ok {
			e.log.Warn("token has no pin mapping, skipping", "kind", tok.Kind)
			continue
		}

		d := e.cfg.defaultDurationFor(string(tok.Kind))
		if tok.Duration != nil {
			d = time.Duration(*tok.Duration * float64(time.Second))
		}

		if err := e.pins.Assert(ctx, pattern); err != nil {
			e.log.Warn("pin assert failed", "kind", tok.Kind, "error", err)
		}
		if !e.interruptibleSleep(ctx, d) {
			return
		}
		if err := e.pins.Assert(ctx, command.StopPattern); err != nil {
			e.log.Warn("pin assert failed", "kind", "stop", "error", err)
		}
	}

	// Post-sequence hold: remain idle for a configurable pause before the
	// handle clears, so a job arriving during the pause still preempts
	// normally.
	e.interruptibleSleep(ctx, e.cfg.PostSequenceHold)
}

// clearIfCurrent drops the executor's job handle once this worker's done
// channel is still the one installed by Submit (a newer Submit may have
// already replaced it via preempt, in which case there is nothing to do).
func (e *Executor) clearIfCurrent(done chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done == done {
		e.cancel = nil
		e.done = nil
	}
}

// interruptibleSleep waits up to d in steps of at most cfg.StepInterval,
// checking ctx between steps. It returns false if interrupted before d
// elapsed.
func (e *Executor) interruptibleSleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	step := e.cfg.StepInterval
	if step <= 0 {
		step = 50 * time.Millisecond
	}

	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		wait := step
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
