package fps

import (
	"golang.org/x/sys/unix"
)

// lock takes an advisory POSIX flock on the underlying file descriptor
// (§4.4: "advisory POSIX-style; ... disabled by default to cooperate
// with network filesystems"). A shared lock is used for read-only opens,
// exclusive otherwise.
func (h *FPS) lock() error {
	how := unix.LOCK_SH
	if h.Directives.OpenMode != OpenRead {
		how = unix.LOCK_EX
	}

	if err := unix.Flock(int(h.file.Fd()), how); err != nil {
		return err
	}

	h.locked = true

	return nil
}

// unlock releases the advisory lock taken by lock.
func (h *FPS) unlock() error {
	if err := unix.Flock(int(h.file.Fd()), unix.LOCK_UN); err != nil {
		return err
	}

	h.locked = false

	return nil
}
