package pool

// Ref is a block handle: a uint32 byte offset into the owning Manager's
// handle space. Standalone pools use a handle space of their own starting at
// zero. A Ref stays valid from Alloc until the matching Free; using it after
// Free or after pool teardown is undefined and not detected.
type Ref uint32

// RefNil is the null handle. Free(RefNil) is a no-op.
const RefNil = Ref(^uint32(0))

// MinBlockSize is the smallest legal block size. A free block stores its
// free-list link in its own first bytes, so blocks cannot be narrower than
// the link.
const MinBlockSize = linkSize

// SizeClass pairs a block size with the number of blocks provisioned for it.
// One size class is managed as one Pool.
type SizeClass struct {
	BlockSize  int32
	BlockCount int32
}

// Options tunes pool construction. A nil *Options means defaults: hardened
// frees, no spill, heap-backed arenas.
type Options struct {
	// Unchecked restores reference-compatible release semantics: Free does
	// not detect double frees, matching allocators that keep no per-block
	// state. A double free in this mode silently corrupts the free list.
	Unchecked bool

	// Spill lets a Manager promote an allocation to the next larger class
	// when the selected class is exhausted. Off by default so exhaustion of
	// the intended class stays visible to callers that rely on deterministic
	// sizing.
	Spill bool

	// Mmap backs each pool's arena with an anonymous memory mapping instead
	// of a heap slice.
	Mmap bool

	// LockMemory pins each pool's arena in RAM (implies Mmap). Unix only.
	LockMemory bool
}

func (o *Options) orDefaults() Options {
	if o == nil {
		return Options{}
	}
	return *o
}
