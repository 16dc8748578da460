// Package arena reserves contiguous backing regions for block pools.
//
// A reservation is a plain byte slice plus a release function. The default
// backing is an ordinary heap slice; callers that need page-granular control
// (or pages pinned in RAM for latency-sensitive hosts) can request an
// anonymous memory mapping instead, which is available on unix platforms.
package arena

import (
	"errors"
	"fmt"
)

// ErrUnsupported indicates mapped reservations are not available on this platform.
var ErrUnsupported = errors.New("arena: mapped reservations not supported on this platform")

// Options selects the backing strategy for a reservation.
type Options struct {
	// Mmap reserves the region as an anonymous private mapping instead of a
	// heap slice.
	Mmap bool

	// Lock pins the mapped pages in RAM (mlock). Implies Mmap.
	Lock bool
}

// Reserve acquires a zeroed region of exactly size bytes.
//
// The returned release function gives the region back to the source; it is
// safe to call more than once. After release the slice must not be touched.
func Reserve(size int, o Options) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("arena: invalid reservation size %d", size)
	}
	if o.Mmap || o.Lock {
		return reserveMapped(size, o.Lock)
	}
	buf := make([]byte, size)
	return buf, func() error { return nil }, nil
}
