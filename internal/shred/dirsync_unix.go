//go:build unix

package shred

import (
	"golang.org/x/sys/unix"
)

// syncDirectory flushes directory metadata (renames, unlinks) to stable storage.
func syncDirectory(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	if err := unix.Fsync(fd); err != nil {
		unix.Close(fd)
		return err
	}
	return unix.Close(fd)
}
