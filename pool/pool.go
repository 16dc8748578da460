package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/poolkit/internal/arena"
)

const (
	// linkSize is the width of the intrusive free-list link written into the
	// first bytes of every free block.
	linkSize = 4

	// linkNil terminates the free chain.
	linkNil = ^uint32(0)

	// maxPoolBytes caps a single pool's arena so all refs fit in uint32
	// space with room for the RefNil sentinel.
	maxPoolBytes = 1<<31 - 1
)

// Pool is a single size class: a contiguous arena divided into equal-size
// blocks, threaded with an intrusive free list. Free links are plain block
// indices stored little-endian in the first bytes of each free block, so the
// pool needs no auxiliary bookkeeping memory beyond a per-block tag bit.
//
// Alloc and Free are O(1) and never block. A Pool is not safe for concurrent
// use; see LockedPool.
type Pool struct {
	blockSize  int32
	blockCount int32
	base       Ref

	storage []byte
	release func() error
	closed  bool

	freeHead  uint32 // block index, linkNil when the pool is exhausted
	freeCount int32

	allocated bitset
	strict    bool

	stats PoolStats
}

// New constructs a standalone pool of blockCount blocks of blockSize bytes.
// Both are fixed for the pool's lifetime; pools never grow, split, or
// coalesce. A nil opts selects the defaults.
func New(blockSize, blockCount int32, opts *Options) (*Pool, error) {
	return newPool(blockSize, blockCount, 0, opts)
}

func newPool(blockSize, blockCount int32, base Ref, opts *Options) (*Pool, error) {
	if blockSize < MinBlockSize {
		return nil, fmt.Errorf("%w: block size %d below minimum %d", ErrBadConfig, blockSize, MinBlockSize)
	}
	if blockCount < 1 {
		return nil, fmt.Errorf("%w: block count %d", ErrBadConfig, blockCount)
	}
	total := int64(blockSize) * int64(blockCount)
	if total > maxPoolBytes {
		return nil, fmt.Errorf("%w: pool size %d exceeds %d bytes", ErrBadConfig, total, int64(maxPoolBytes))
	}

	o := opts.orDefaults()
	buf, release, err := arena.Reserve(int(total), arena.Options{Mmap: o.Mmap, Lock: o.LockMemory})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMemory, err)
	}

	p := &Pool{
		blockSize:  blockSize,
		blockCount: blockCount,
		base:       base,
		storage:    buf,
		release:    release,
		freeHead:   0,
		freeCount:  blockCount,
		allocated:  newBitset(int(blockCount)),
		strict:     !o.Unchecked,
	}
	p.threadFreeList()
	p.stats.BlockSize = blockSize
	p.stats.BlockCount = blockCount
	return p, nil
}

// threadFreeList chains block 0 → 1 → … → n-1 → linkNil through the blocks'
// own link bytes.
func (p *Pool) threadFreeList() {
	for i := int32(0); i < p.blockCount; i++ {
		next := linkNil
		if i+1 < p.blockCount {
			next = uint32(i + 1)
		}
		p.setLink(uint32(i), next)
	}
}

func (p *Pool) linkOf(idx uint32) uint32 {
	off := int(idx) * int(p.blockSize)
	return binary.LittleEndian.Uint32(p.storage[off : off+linkSize])
}

func (p *Pool) setLink(idx, next uint32) {
	off := int(idx) * int(p.blockSize)
	binary.LittleEndian.PutUint32(p.storage[off:off+linkSize], next)
}

// Alloc pops the head of the free list and returns the block's ref plus its
// full payload slice. The former link bytes are not cleared; block content is
// undefined until the caller writes it.
//
// Returns ErrExhausted when no block is free. The pool never blocks, retries,
// or falls back on its own.
func (p *Pool) Alloc() (Ref, []byte, error) {
	if p.closed {
		return RefNil, nil, ErrClosed
	}
	p.stats.AllocCalls++
	if p.freeCount == 0 {
		p.stats.FailExhausted++
		return RefNil, nil, ErrExhausted
	}

	idx := p.freeHead
	p.freeHead = p.linkOf(idx)
	p.freeCount--
	p.allocated.set(int(idx))

	if inUse := p.blockCount - p.freeCount; inUse > p.stats.InUseHighWater {
		p.stats.InUseHighWater = inUse
	}

	off := int(idx) * int(p.blockSize)
	end := off + int(p.blockSize)
	return p.base + Ref(off), p.storage[off:end:end], nil
}

// Free links the block back at the head of the free list, giving LIFO reuse
// order: the most recently freed block is handed out first, which keeps
// bursty alloc/free patterns cache-warm.
//
// Free(RefNil) is a no-op. Refs outside the pool or off a block boundary
// return ErrBadRef with the pool untouched. In strict mode (the default)
// freeing an already-free block returns ErrDoubleFree; in Unchecked mode it
// is not detected.
func (p *Pool) Free(ref Ref) error {
	if ref == RefNil {
		return nil
	}
	if p.closed {
		return ErrClosed
	}
	p.stats.FreeCalls++
	idx, ok := p.indexOf(ref)
	if !ok {
		return fmt.Errorf("%w: %#x", ErrBadRef, uint32(ref))
	}
	if p.strict && !p.allocated.test(int(idx)) {
		p.stats.DoubleFrees++
		return fmt.Errorf("%w: %#x", ErrDoubleFree, uint32(ref))
	}

	p.setLink(idx, p.freeHead)
	p.freeHead = idx
	p.freeCount++
	p.allocated.clear(int(idx))
	return nil
}

// Bytes returns the payload slice of a block owned by this pool.
func (p *Pool) Bytes(ref Ref) ([]byte, error) {
	if p.closed {
		return nil, ErrClosed
	}
	idx, ok := p.indexOf(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %#x", ErrBadRef, uint32(ref))
	}
	off := int(idx) * int(p.blockSize)
	end := off + int(p.blockSize)
	return p.storage[off:end:end], nil
}

// Contains reports whether ref falls inside this pool's handle range on a
// block boundary. O(1); used by Manager to route frees.
func (p *Pool) Contains(ref Ref) bool {
	if ref < p.base || ref == RefNil {
		return false
	}
	off := uint32(ref - p.base)
	if off >= uint32(p.blockSize)*uint32(p.blockCount) {
		return false
	}
	return off%uint32(p.blockSize) == 0
}

// indexOf converts an owned, aligned ref into a block index.
func (p *Pool) indexOf(ref Ref) (uint32, bool) {
	if !p.Contains(ref) {
		return 0, false
	}
	return uint32(ref-p.base) / uint32(p.blockSize), true
}

// limit is the first ref past the pool's handle range.
func (p *Pool) limit() Ref {
	return p.base + Ref(uint32(p.blockSize)*uint32(p.blockCount))
}

// BlockSize returns the fixed size in bytes of every block in this pool.
func (p *Pool) BlockSize() int32 { return p.blockSize }

// BlockCount returns the fixed number of blocks in this pool.
func (p *Pool) BlockCount() int32 { return p.blockCount }

// FreeCount returns the number of blocks currently available.
func (p *Pool) FreeCount() int32 { return p.freeCount }

// Base returns the first ref of this pool's handle range.
func (p *Pool) Base() Ref { return p.base }

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() PoolStats {
	s := p.stats
	s.FreeCount = p.freeCount
	return s
}

// Close releases the backing arena. Outstanding refs become dangling; the
// pool does not detect their later use. Close is idempotent.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.storage = nil
	p.allocated = nil
	p.freeHead = linkNil
	p.freeCount = 0
	if p.release == nil {
		return nil
	}
	return p.release()
}
