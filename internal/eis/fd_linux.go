//go:build linux

package eis

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DuplicateFD duplicates fd so the caller and the Input Event Server own
// distinct descriptors (§5: "file descriptors transferred out ... are
// always duplicated before handoff"). Used by ConnectToEIS before
// handing the listener fd back to the RPC caller.
func DuplicateFD(fd int) (int, error) {
	dup, err := unix.Dup(fd)
	if err != nil {
		return -1, fmt.Errorf("eis: duplicate fd: %w", err)
	}
	return dup, nil
}
