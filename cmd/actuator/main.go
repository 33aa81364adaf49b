package main

import (
	"context"
	"fmt"
	"os"

	"github.com/autobot/roboplane/internal/actuator"
	"github.com/autobot/roboplane/internal/shutdown"
)

func main() {
	a, err := actuator.New()
	if err != nil {
		fmt.Printf("failed to initialize actuator: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := a.Run(ctx); err != nil {
		fmt.Printf("actuator exited: %v\n", err)
		os.Exit(1)
	}
}
