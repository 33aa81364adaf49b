package aggregator

import (
	"time"

	"github.com/autobot/roboplane/internal/envutil"
)

// Config is the aggregator process's configuration surface.
type Config struct {
	Env string

	HTTPAddr string

	NATSURL        string
	CommandSubject string
	RequestTimeout time.Duration
	RequestRetries int

	RedisAddr         string
	HeartbeatChannel  string
	HeartbeatStaleAfter time.Duration

	HistoryCapacity int
}

func LoadConfig() Config {
	return Config{
		Env: envutil.String("ROBOPLANE_ENV", "development"),

		HTTPAddr: envutil.String("ROBOPLANE_AGGREGATOR_ADDR", ":5557"),

		NATSURL:        envutil.String("ROBOPLANE_NATS_URL", "nats://127.0.0.1:4222"),
		CommandSubject: envutil.String("ROBOPLANE_COMMAND_SUBJECT", "roboplane.command"),
		RequestTimeout: envutil.Duration("ROBOPLANE_REQUEST_TIMEOUT", 5.0),
		RequestRetries: envutil.Int("ROBOPLANE_REQUEST_RETRIES", 3),

		RedisAddr:           envutil.String("ROBOPLANE_REDIS_ADDR", "127.0.0.1:6379"),
		HeartbeatChannel:    envutil.String("ROBOPLANE_HEARTBEAT_CHANNEL", "roboplane.heartbeat"),
		HeartbeatStaleAfter: envutil.Duration("ROBOPLANE_HEARTBEAT_STALE_AFTER", 3.0),

		HistoryCapacity: envutil.Int("ROBOPLANE_HISTORY_CAPACITY", 100),
	}
}
