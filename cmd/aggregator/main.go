package main

import (
	"context"
	"fmt"
	"os"

	"github.com/autobot/roboplane/internal/aggregator"
	"github.com/autobot/roboplane/internal/shutdown"
)

func main() {
	a, err := aggregator.New()
	if err != nil {
		fmt.Printf("failed to initialize aggregator: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := a.Run(ctx); err != nil {
		fmt.Printf("aggregator exited: %v\n", err)
		os.Exit(1)
	}
}
