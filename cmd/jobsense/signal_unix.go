//go:build !windows

package main

import (
	"os"
	"syscall"
)

// terminationSignals are the signals that request a graceful shutdown.
// Process managers (systemd, kubernetes, plain `kill`) send SIGTERM;
// Ctrl+C in a terminal sends SIGINT.
var terminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
