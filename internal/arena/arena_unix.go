//go:build unix

package arena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// reserveMapped backs the region with an anonymous private mapping.
//
// Locked mappings count against RLIMIT_MEMLOCK; a lock failure releases the
// mapping and is reported rather than silently degraded, since callers that
// ask for pinned pages are doing so for latency guarantees.
func reserveMapped(size int, lock bool) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("arena: mmap: %w", err)
	}
	if lock {
		if err := unix.Mlock(data); err != nil {
			_ = unix.Munmap(data)
			return nil, nil, fmt.Errorf("arena: mlock: %w", err)
		}
	}
	released := false
	release := func() error {
		if released || data == nil {
			return nil
		}
		released = true
		if lock {
			_ = unix.Munlock(data)
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}
