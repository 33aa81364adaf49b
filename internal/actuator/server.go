package actuator

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/autobot/roboplane/internal/command"
	"github.com/autobot/roboplane/internal/logger"
	"github.com/autobot/roboplane/internal/transport"
)

/*
Server implements the actuator's acceptance protocol:
  1. receive a normalized intent over the command channel
  2. "stop" (or a sequence that is semantically empty after the "seq "
     prefix) cancels the current job, asserts the stop pattern, replies ok
  3. anything else preempts the current job and schedules a new one,
     replying ok immediately, never blocking on motion completing
  4. unparseable tokens are skipped with a log entry, never abort the
     sequence
*/
type Server struct {
	log      *logger.Logger
	executor *Executor
}

func NewServer(executor *Executor, log *logger.Logger) *Server {
	return &Server{log: log.With("component", "ActuatorServer"), executor: executor}
}

// Handle is the transport.CommandHandler wired into the command channel.
func (s *Server) Handle(ctx context.Context, req transport.CommandRequest) transport.CommandReply {
	ctx, span := otel.Tracer("github.com/autobot/roboplane/internal/actuator").Start(ctx, "ActuatorServer.Handle")
	defer span.End()

	cmd := strings.TrimSpace(req.Cmd)

	seqText, isSeq := asSequence(req, cmd)
	if isSeq {
		return s.handleSequence(ctx, cmd, seqText)
	}
	return s.handleSingle(ctx, cmd)
}

func asSequence(req transport.CommandRequest, cmd string) (string, bool) {
	if req.Mode == "seq" {
		return strings.TrimSpace(strings.TrimPrefix(cmd, "seq ")), true
	}
	if req.Mode == "single" {
		return "", false
	}
	if strings.HasPrefix(cmd, "seq ") {
		return strings.TrimSpace(strings.TrimPrefix(cmd, "seq ")), true
	}
	return "", false
}

func (s *Server) handleSequence(ctx context.Context, original, remainder string) transport.CommandReply {
	if remainder == "" || remainder == "stop" {
		s.executor.Stop(ctx)
		return transport.CommandReply{Status: transport.StatusOK, Cmd: original, Forwarded: true}
	}

	seq, skipped := command.ParseSequence(remainder)
	for _, tok := range skipped {
		s.log.Warn("unknown token in sequence, skipping", "token", tok)
	}
	s.executor.Submit(ctx, seq)
	return transport.CommandReply{Status: transport.StatusOK, Cmd: original, Forwarded: true}
}

func (s *Server) handleSingle(ctx context.Context, cmd string) transport.CommandReply {
	if cmd == "" {
		s.executor.Stop(ctx)
		return transport.CommandReply{Status: transport.StatusOK, Cmd: cmd, Forwarded: true}
	}

	tok, ok := command.ParseCommand(cmd)
	if !ok {
		s.log.Warn("unparseable command, treating as stop-free no-op", "cmd", cmd)
		return transport.CommandReply{Status: transport.StatusOK, Cmd: cmd, Forwarded: true}
	}

	if tok.Kind == command.StopKind {
		s.executor.Stop(ctx)
		return transport.CommandReply{Status: transport.StatusOK, Cmd: cmd, Forwarded: true}
	}

	s.executor.Submit(ctx, command.Sequence{Tokens: []command.Token{tok}})
	return transport.CommandReply{Status: transport.StatusOK, Cmd: cmd, Forwarded: true}
}
