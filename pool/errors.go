package pool

import "errors"

var (
	// ErrNoMemory indicates backing storage for a pool could not be reserved.
	ErrNoMemory = errors.New("pool: backing storage reservation failed")

	// ErrBadConfig indicates an invalid or ambiguous size class configuration.
	ErrBadConfig = errors.New("pool: invalid size class configuration")

	// ErrBadRequest indicates a non-positive allocation request.
	ErrBadRequest = errors.New("pool: request size must be positive")

	// ErrExhausted indicates the selected size class has no free block left.
	ErrExhausted = errors.New("pool: size class exhausted")

	// ErrTooLarge indicates no configured size class can satisfy the request.
	ErrTooLarge = errors.New("pool: no size class large enough")

	// ErrForeignRef indicates a ref that no pool owns.
	ErrForeignRef = errors.New("pool: ref not owned by any pool")

	// ErrBadRef indicates an out-of-range or unaligned block reference.
	ErrBadRef = errors.New("pool: bad block reference")

	// ErrDoubleFree indicates a free of a block that is already free (strict mode).
	ErrDoubleFree = errors.New("pool: block already free")

	// ErrClosed indicates use of a pool or manager after Close.
	ErrClosed = errors.New("pool: closed")
)
