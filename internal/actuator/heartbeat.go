package actuator

import (
	"context"
	"time"

	"github.com/autobot/roboplane/internal/logger"
	"github.com/autobot/roboplane/internal/transport"
)

// PublishHeartbeats runs the heartbeat publisher loop: emit a heartbeat
// envelope once per period (1s when period is not positive) until ctx is
// cancelled.
func PublishHeartbeats(ctx context.Context, pub transport.HeartbeatPublisher, period time.Duration, log *logger.Logger) error {
	if period <= 0 {
		period = time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			hb := transport.HeartbeatEnvelope{
				Type:   "heartbeat",
				Ts:     float64(time.Now().Unix()),
				Status: "ok",
			}
			if err := pub.Publish(ctx, hb); err != nil {
				log.Warn("heartbeat publish failed", "error", err)
			}
		}
	}
}
