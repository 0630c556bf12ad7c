//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// conversionSignals cancel a run, including a closed terminal (SIGHUP).
var conversionSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// notifyContext returns a context canceled on conversionSignals. Running
// pandoc and vector tool process groups are killed through it.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, conversionSignals...)
}
