//go:build linux

package capture

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// NewSealedMemfd exposes the sealed-memfd allocator to callers outside
// this package (the RPC Dispatcher's one-shot Screenshot/PickColor path,
// which has no producer node or renegotiation loop of its own).
func NewSealedMemfd(name string, size uint32) (int, error) {
	return newSealedMemfd(name, size)
}

// newSealedMemfd creates an anonymous memory file of the given size,
// sealed against growing or shrinking after this call, per §6.7's
// "sealed memfds named luminous or pipewire-screencopy". Falls back to
// shm_open under /dev/shm when memfd_create is unavailable (older
// kernels), per §6.7's fallback path.
func newSealedMemfd(name string, size uint32) (fd int, err error) {
	fd, err = unix.MemfdCreate(name, unix.MFD_ALLOW_SEALING)
	if err != nil {
		return shmOpenFallback(name, size)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("capture: ftruncate sealed memfd: %w", err)
	}
	seals := unix.F_SEAL_SHRINK | unix.F_SEAL_GROW | unix.F_SEAL_SEAL
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, seals); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("capture: seal memfd: %w", err)
	}
	return fd, nil
}

// shmOpenFallback creates and immediately unlinks a /luminous-<ns> shm
// object (§6.7), for kernels without memfd_create.
func shmOpenFallback(name string, size uint32) (int, error) {
	path := fmt.Sprintf("/luminous-%d", time.Now().UnixNano())
	fd, err := unix.Open("/dev/shm"+path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0600)
	if err != nil {
		return -1, fmt.Errorf("capture: shm_open fallback: %w", err)
	}
	unix.Unlink("/dev/shm" + path)
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("capture: ftruncate fallback shm: %w", err)
	}
	return fd, nil
}
