//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// conversionSignals stop a run. Only Ctrl-C is delivered on Windows.
var conversionSignals = []os.Signal{os.Interrupt}

// notifyContext returns a context canceled on conversionSignals.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, conversionSignals...)
}
