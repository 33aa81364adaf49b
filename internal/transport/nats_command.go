package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/autobot/roboplane/internal/logger"
)

/*
NATS backs the command channel: Conn.Request/Subscribe maps directly onto
"one request, exactly one reply, bounded by a timeout".

A retry contract sits on top of that: on a timed-out request, retry up to a
configured limit before giving up. nats.go already reconnects its
underlying TCP connection transparently, so this client's retry loop only
needs to re-issue the logical request, not rebuild a socket by hand.
*/

type natsCommandClient struct {
	log     *logger.Logger
	nc      *nats.Conn
	subject string
	timeout time.Duration
	retries int
}

type NATSCommandConfig struct {
	URL     string
	Subject string
	Timeout time.Duration
	Retries int
}

func NewNATSCommandClient(cfg NATSCommandConfig, log *logger.Logger) (CommandClient, error) {
	nc, err := nats.Connect(cfg.URL, nats.Timeout(5*time.Second), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &natsCommandClient{
		log:     log.With("component", "NATSCommandClient"),
		nc:      nc,
		subject: cfg.Subject,
		timeout: cfg.Timeout,
		retries: retries,
	}, nil
}

func (c *natsCommandClient) Send(ctx context.Context, req CommandRequest) (CommandReply, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return CommandReply{}, fmt.Errorf("marshal command request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		msg, err := c.nc.RequestWithContext(reqCtx, c.subject, payload)
		cancel()
		if err != nil {
			lastErr = err
			c.log.Warn("command request failed", "attempt", attempt, "max_retries", c.retries, "error", err)
			continue
		}

		var reply CommandReply
		if err := json.Unmarshal(msg.Data, &reply); err != nil {
			return CommandReply{}, fmt.Errorf("decode command reply: %w", err)
		}
		return reply, nil
	}
	return CommandReply{}, fmt.Errorf("command request exhausted %d retries: %w", c.retries, lastErr)
}

func (c *natsCommandClient) Close() error {
	c.nc.Close()
	return nil
}

type natsCommandServer struct {
	log     *logger.Logger
	nc      *nats.Conn
	subject string
	mu      sync.Mutex // serializes handler dispatch: strict lockstep, one request at a time
	sub     *nats.Subscription
}

func NewNATSCommandServer(url, subject string, log *logger.Logger) (CommandServer, error) {
	nc, err := nats.Connect(url, nats.Timeout(5*time.Second), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &natsCommandServer{
		log:     log.With("component", "NATSCommandServer"),
		nc:      nc,
		subject: subject,
	}, nil
}

func (s *natsCommandServer) Serve(ctx context.Context, handle CommandHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		s.mu.Lock()
		defer s.mu.Unlock()

		req := decodeCommandRequest(msg.Data)
		reply := handle(ctx, req)

		b, err := json.Marshal(reply)
		if err != nil {
			s.log.Error("marshal command reply failed", "error", err)
			return
		}
		if err := msg.Respond(b); err != nil {
			s.log.Warn("respond failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	s.sub = sub

	<-ctx.Done()
	return nil
}

func (s *natsCommandServer) Close() error {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	s.nc.Close()
	return nil
}

// decodeCommandRequest accepts either a JSON CommandRequest object or a raw
// UTF-8 text payload: "mode" defaults to "auto" when absent.
func decodeCommandRequest(data []byte) CommandRequest {
	trimmed := strings.TrimSpace(string(data))
	var req CommandRequest
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &req); err == nil && req.Cmd != "" {
			if req.Mode == "" {
				req.Mode = "auto"
			}
			return req
		}
	}
	return CommandRequest{Cmd: trimmed, Mode: "auto"}
}
