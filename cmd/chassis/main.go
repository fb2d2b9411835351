// FILE: chassis/cmd/chassis/main.go
// Package main is the entry point for the chassis CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chassis/cmd/chassis/app"
)

func main() {
	// Cancel the command context on signal so serve and watch modes shut
	// down gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
