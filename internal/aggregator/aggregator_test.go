package aggregator

import (
	"context"
	"testing"

	"github.com/autobot/roboplane/internal/domain"
	"github.com/autobot/roboplane/internal/logger"
	"github.com/autobot/roboplane/internal/transport"
)

type fakeClient struct {
	reply transport.CommandReply
	err   error
	sent  []transport.CommandRequest
}

func (f *fakeClient) Send(_ context.Context, req transport.CommandRequest) (transport.CommandReply, error) {
	f.sent = append(f.sent, req)
	return f.reply, f.err
}

func (f *fakeClient) Close() error { return nil }

func newTestAggregator(t *testing.T, client *fakeClient) *Aggregator {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return New(client, 100, log)
}

func TestValidateAcceptsKnownHead(t *testing.T) {
	for _, raw := range []string{"forward", "Forward 2", "left:1.5", "seq forward 2; stop"} {
		if _, err := Validate(raw); err != nil {
			t.Fatalf("Validate(%q) unexpectedly rejected: %v", raw, err)
		}
	}
}

func TestValidateRejectsUnknownHead(t *testing.T) {
	if _, err := Validate("teleport 3"); err == nil {
		t.Fatalf("expected rejection for unknown head")
	} else if err.Error() != "Invalid command" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	if _, err := Validate("   "); err == nil {
		t.Fatalf("expected rejection for empty command")
	}
}

func TestValidateLowercasesFirstTokenOnly(t *testing.T) {
	got, err := Validate("Seq Forward 2")
	if err != nil {
		t.Fatalf("Seq (capitalized first token) should normalize to the seq prefix: %v", err)
	}
	if got != "seq Forward 2" {
		t.Fatalf("expected only the first token lowercased, got %q", got)
	}
}

func TestSubmitAcceptedRecordsHistoryAndStats(t *testing.T) {
	client := &fakeClient{reply: transport.CommandReply{Status: transport.StatusOK, Forwarded: true}}
	agg := newTestAggregator(t, client)

	res := agg.Submit(context.Background(), "forward 2", domain.SourceManual, domain.PriorityNormal)
	if !res.Accepted || !res.Forwarded {
		t.Fatalf("expected accepted+forwarded, got %+v", res)
	}

	recent := agg.Recent(10)
	if len(recent) != 1 || recent[0].Normalized != "forward 2" {
		t.Fatalf("unexpected history: %+v", recent)
	}

	snap := agg.Stats()
	if snap.Total != 1 || snap.Errors != 0 || snap.BySource[domain.SourceManual] != 1 {
		t.Fatalf("unexpected stats: %+v", snap)
	}
}

func TestSubmitRejectedIncrementsErrorsOnly(t *testing.T) {
	client := &fakeClient{}
	agg := newTestAggregator(t, client)

	res := agg.Submit(context.Background(), "teleport 3", domain.SourceManual, domain.PriorityNormal)
	if res.Accepted {
		t.Fatalf("expected rejection")
	}
	if res.Message != "Invalid command" {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	snap := agg.Stats()
	if snap.Errors != 1 || snap.Total != 1 {
		t.Fatalf("unexpected stats: %+v", snap)
	}
	if len(agg.Recent(10)) != 0 {
		t.Fatalf("rejected command must not appear in history")
	}
	if len(client.sent) != 0 {
		t.Fatalf("rejected command must not be forwarded")
	}
}

func TestSubmitForwardingErrorStillRecordsHistory(t *testing.T) {
	client := &fakeClient{err: context.DeadlineExceeded}
	agg := newTestAggregator(t, client)

	res := agg.Submit(context.Background(), "stop", domain.SourceVision, domain.PriorityHigh)
	if !res.Accepted {
		t.Fatalf("expected accepted-but-undelivered, got %+v", res)
	}
	if res.Forwarded {
		t.Fatalf("expected Forwarded=false on transport error")
	}
	if len(agg.Recent(10)) != 1 {
		t.Fatalf("expected intent recorded despite forward failure")
	}
}
