//go:build unix

package lifecycle

import (
	"os"
	"syscall"
)

// SIGUSR1 snapshots the timer as if the app was backgrounded, SIGUSR2 restores it.
func transitionSignals() (os.Signal, os.Signal, bool) {
	return syscall.SIGUSR1, syscall.SIGUSR2, true
}
