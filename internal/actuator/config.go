package actuator

import (
	"time"

	"github.com/autobot/roboplane/internal/envutil"
)

// ExecutorConfig holds the per-token default durations and timing
// constants that drive the motion scheduler.
type ExecutorConfig struct {
	DurForward  time.Duration
	DurBackward time.Duration
	DurTurn     time.Duration
	// DurSleepDefault is substituted when a sleep token omits its duration.
	DurSleepDefault time.Duration
	// StepInterval bounds the interruptible-sleep poll period.
	StepInterval time.Duration
	// PostSequenceHold is the pause after a completed, non-interrupted
	// sequence before the next job may begin.
	PostSequenceHold time.Duration
}

func DefaultExecutorConfig() ExecutorConfig {
	step := 50 * time.Millisecond
	return ExecutorConfig{
		DurForward:       500 * time.Millisecond,
		DurBackward:      500 * time.Millisecond,
		DurTurn:          300 * time.Millisecond,
		DurSleepDefault:  step,
		StepInterval:     step,
		PostSequenceHold: 1 * time.Second,
	}
}

// defaultDurationFor returns the configured default for kinds that drive
// pins. lock/unlock default to 0s unless explicitly supplied.
func (c ExecutorConfig) defaultDurationFor(kind string) time.Duration {
	switch kind {
	case "forward":
		return c.DurForward
	case "backward":
		return c.DurBackward
	case "left", "right":
		return c.DurTurn
	case "lock", "unlock":
		return 0
	case "sleep":
		return c.DurSleepDefault
	default:
		return 0
	}
}

// ProcessConfig is the actuator process's configuration surface.
type ProcessConfig struct {
	Env string

	NATSURL        string
	CommandSubject string

	RedisAddr        string
	HeartbeatChannel string
	HeartbeatPeriod  time.Duration

	Executor ExecutorConfig
}

func LoadProcessConfig() ProcessConfig {
	return ProcessConfig{
		Env: envutil.String("ROBOPLANE_ENV", "development"),

		NATSURL:        envutil.String("ROBOPLANE_NATS_URL", "nats://127.0.0.1:4222"),
		CommandSubject: envutil.String("ROBOPLANE_COMMAND_SUBJECT", "roboplane.command"),

		RedisAddr:        envutil.String("ROBOPLANE_REDIS_ADDR", "127.0.0.1:6379"),
		HeartbeatChannel: envutil.String("ROBOPLANE_HEARTBEAT_CHANNEL", "roboplane.heartbeat"),
		HeartbeatPeriod:  envutil.Duration("ROBOPLANE_HEARTBEAT_PERIOD", 1.0),

		Executor: ExecutorConfig{
			DurForward:       envutil.Duration("ROBOPLANE_DUR_FORWARD", 0.5),
			DurBackward:      envutil.Duration("ROBOPLANE_DUR_BACKWARD", 0.5),
			DurTurn:          envutil.Duration("ROBOPLANE_DUR_TURN", 0.3),
			DurSleepDefault:  50 * time.Millisecond,
			StepInterval:     50 * time.Millisecond,
			PostSequenceHold: envutil.Duration("ROBOPLANE_POST_SEQUENCE_HOLD", 1.0),
		},
	}
}
