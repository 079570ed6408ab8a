package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// main wires SIGINT/SIGTERM into the command context so a running serve
// command drains in-flight table processing before exiting.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
