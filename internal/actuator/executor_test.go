package actuator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/autobot/roboplane/internal/command"
	"github.com/autobot/roboplane/internal/logger"
)

type recordingSink struct {
	mu      sync.Mutex
	history []command.PinState
}

func (s *recordingSink) Assert(_ context.Context, p command.PinState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, p)
	return nil
}

func (s *recordingSink) last() command.PinState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return command.PinState{}
	}
	return s.history[len(s.history)-1]
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func testConfig() ExecutorConfig {
	return ExecutorConfig{
		DurForward:       200 * time.Millisecond,
		DurBackward:      200 * time.Millisecond,
		DurTurn:          100 * time.Millisecond,
		DurSleepDefault:  10 * time.Millisecond,
		StepInterval:     10 * time.Millisecond,
		PostSequenceHold: 20 * time.Millisecond,
	}
}

func newTestExecutor(t *testing.T) (*Executor, *recordingSink) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	sink := &recordingSink{}
	return NewExecutor(testConfig(), sink, log), sink
}

func TestSubmitAssertsPinsThenStop(t *testing.T) {
	e, sink := newTestExecutor(t)
	seq, _ := command.ParseSequence("forward 0.05")
	e.Submit(context.Background(), seq)

	deadline := time.Now().Add(500 * time.Millisecond)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if sink.count() < 2 {
		t.Fatalf("expected at least forward+stop pin assertions, got %d", sink.count())
	}
	want, _ := command.PinsFor(command.Forward)
	if sink.history[0] != want {
		t.Fatalf("first pin assert = %v, want forward pattern %v", sink.history[0], want)
	}
	if sink.history[1] != command.StopPattern {
		t.Fatalf("second pin assert = %v, want stop pattern", sink.history[1])
	}
}

func TestPreemptionAssertsStopBeforeNewJob(t *testing.T) {
	e, sink := newTestExecutor(t)
	seq, _ := command.ParseSequence("forward 10")
	e.Submit(context.Background(), seq)
	time.Sleep(30 * time.Millisecond)

	stopSeq, _ := command.ParseSequence("stop")
	e.Submit(context.Background(), stopSeq)
	time.Sleep(30 * time.Millisecond)

	if sink.count() < 2 || sink.history[1] != command.StopPattern {
		t.Fatalf("pin assert after the preempted forward = %v, want stop pattern", sink.history)
	}
	if got := sink.last(); got != command.StopPattern {
		t.Fatalf("last pin pattern = %v, want stop pattern", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	e, sink := newTestExecutor(t)
	e.Stop(context.Background())
	first := sink.count()
	e.Stop(context.Background())
	if sink.last() != command.StopPattern {
		t.Fatalf("expected stop pattern asserted")
	}
	if sink.count() < first {
		t.Fatalf("unexpected assertion count regression")
	}
}

func TestSubmitEmptySequenceAssertsStop(t *testing.T) {
	e, sink := newTestExecutor(t)
	e.Submit(context.Background(), command.Sequence{})
	if sink.count() != 1 || sink.last() != command.StopPattern {
		t.Fatalf("expected exactly one stop pattern assertion, got %v", sink.history)
	}
}
