// Package pool provides a deterministic, size-classed block allocator for
// latency-sensitive hosts that cannot tolerate a general-purpose heap on the
// hot path.
//
// # Overview
//
// A Pool is one size class: a contiguous arena divided into equal-size
// blocks with an intrusive free list threaded through the unused blocks. A
// Manager owns a set of Pools with distinct block sizes, routes each
// allocation to the smallest class that satisfies it, and routes each free
// back to the pool that owns the ref. Allocation and free are O(1) with no
// search, no fragmentation accounting, and no blocking; requests of varying
// but bounded size are served without ever touching a general heap allocator
// after construction.
//
// # Free list
//
// A free block stores the index of the next free block in its own first four
// bytes, little-endian. Links are plain indices into the arena, never
// reinterpreted pointers, so the scheme stays within ordinary slice safety
// while keeping the classic zero-overhead intrusive layout: the unused
// payload of a free block is the bookkeeping. Reuse order is LIFO, which
// keeps bursty alloc/free patterns cache-warm.
//
// # Handles
//
// Alloc returns a Ref, a uint32 offset in the manager's handle space, plus
// the block's payload slice. RefNil is the null handle and frees of it are
// no-ops. Pools within a manager occupy disjoint handle ranges, which is what
// makes ownership routing on Free an O(log k) range lookup.
//
// # Failure modes
//
//	ErrNoMemory   backing arena could not be reserved (construction only)
//	ErrBadConfig  invalid or duplicate size classes (construction only)
//	ErrExhausted  the selected class has no free block; caller decides fallback
//	ErrTooLarge   no configured class can satisfy the request
//	ErrForeignRef freed ref is owned by no pool; allocator state is untouched
//
// Nothing is logged or retried internally; every failure is returned to the
// immediate caller.
//
// # Strict mode
//
// By default Free detects double frees through a per-block tag bit and
// reports ErrDoubleFree instead of corrupting the free list. Options.Unchecked
// restores the classic unchecked semantics of tag-free allocators. Use after
// free and use after Close of an outstanding payload slice are not detected
// in either mode.
//
// # Backing storage
//
// Arenas are heap slices by default. Options.Mmap reserves them as anonymous
// memory mappings, and Options.LockMemory additionally pins the pages in RAM
// for hosts that cannot absorb page faults on the allocation path (unix
// only).
//
// # Thread safety
//
// Pool and Manager are not thread-safe; no operation blocks, so the critical
// sections are short and bounded. The recommended discipline for concurrent
// hosts is one exclusive lock per pool, which LockedPool provides;
// LockedManager wraps the routing path in a single mutex.
package pool
