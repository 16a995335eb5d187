package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/odpf/chronosctl/client/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// cobra already printed the error
	err := cmd.New().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
