//go:build windows

package main

import "os"

// terminationSignals are the signals that request a graceful shutdown.
// Windows has no SIGTERM; Ctrl+C (os.Interrupt) is the only trigger.
var terminationSignals = []os.Signal{os.Interrupt}
