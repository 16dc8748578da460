package pool

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Manager owns an ordered set of pools with distinct block sizes and routes
// requests between them: Alloc picks the smallest class whose block size
// satisfies the request, Free routes a ref back to the pool whose handle
// range owns it.
//
// The class set is fixed at construction. A Manager is not safe for
// concurrent use; see LockedManager.
type Manager struct {
	pools  []*Pool // ascending by block size; handle bases ascend too
	spill  bool
	closed bool

	stats ManagerStats
}

// NewManager builds one pool per size class. Classes are sorted ascending by
// block size; duplicate block sizes are rejected as ambiguous. Construction
// is atomic: if any pool fails, every pool already built is torn down and the
// error is returned.
func NewManager(classes []SizeClass, opts *Options) (*Manager, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no size classes", ErrBadConfig)
	}

	sorted := make([]SizeClass, len(classes))
	copy(sorted, classes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BlockSize < sorted[j].BlockSize })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].BlockSize == sorted[i-1].BlockSize {
			return nil, fmt.Errorf("%w: duplicate block size %d", ErrBadConfig, sorted[i].BlockSize)
		}
	}

	o := opts.orDefaults()
	m := &Manager{spill: o.Spill}
	var cursor int64
	for _, c := range sorted {
		span := int64(c.BlockSize) * int64(c.BlockCount)
		if span > 0 && cursor+span > math.MaxUint32 {
			_ = m.closePools()
			return nil, fmt.Errorf("%w: size classes exceed the handle space", ErrBadConfig)
		}
		p, err := newPool(c.BlockSize, c.BlockCount, Ref(cursor), opts)
		if err != nil {
			_ = m.closePools()
			return nil, fmt.Errorf("size class %d: %w", c.BlockSize, err)
		}
		m.pools = append(m.pools, p)
		cursor += span
	}
	return m, nil
}

// Alloc routes the request to the first class whose block size is at least
// size ("best fit among fixed classes"; the gap between request and class is
// bounded, predictable internal fragmentation). With no class large enough it
// returns ErrTooLarge. With the selected class exhausted it returns
// ErrExhausted naming the class, unless the Spill option was set, in which
// case strictly larger classes are tried in ascending order.
func (m *Manager) Alloc(size int32) (Ref, []byte, error) {
	if m.closed {
		return RefNil, nil, ErrClosed
	}
	m.stats.AllocCalls++
	if size < 1 {
		return RefNil, nil, fmt.Errorf("%w: %d", ErrBadRequest, size)
	}

	i := sort.Search(len(m.pools), func(i int) bool { return m.pools[i].blockSize >= size })
	if i == len(m.pools) {
		m.stats.FailTooLarge++
		return RefNil, nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	for j := i; j < len(m.pools); j++ {
		ref, buf, err := m.pools[j].Alloc()
		if err == nil {
			if j > i {
				m.stats.Spills++
			}
			return ref, buf, nil
		}
		if !errors.Is(err, ErrExhausted) {
			return RefNil, nil, err
		}
		if !m.spill {
			break
		}
	}
	m.stats.FailExhausted++
	return RefNil, nil, fmt.Errorf("%w: size class %d", ErrExhausted, m.pools[i].blockSize)
}

// Free routes ref back to the pool whose handle range owns it. Free(RefNil)
// is a no-op. A ref outside every pool's range, or inside a range but off a
// block boundary, returns ErrForeignRef and leaves every pool untouched.
func (m *Manager) Free(ref Ref) error {
	if ref == RefNil {
		return nil
	}
	if m.closed {
		return ErrClosed
	}
	m.stats.FreeCalls++

	p := m.owner(ref)
	if p == nil || !p.Contains(ref) {
		m.stats.ForeignFrees++
		return fmt.Errorf("%w: %#x", ErrForeignRef, uint32(ref))
	}
	return p.Free(ref)
}

// Bytes returns the payload slice of a block owned by one of the manager's
// pools.
func (m *Manager) Bytes(ref Ref) ([]byte, error) {
	if m.closed {
		return nil, ErrClosed
	}
	p := m.owner(ref)
	if p == nil || !p.Contains(ref) {
		return nil, fmt.Errorf("%w: %#x", ErrForeignRef, uint32(ref))
	}
	return p.Bytes(ref)
}

// owner binary-searches the pools' disjoint handle ranges for the one that
// covers ref. Returns nil when no range does; alignment is the pool's call.
func (m *Manager) owner(ref Ref) *Pool {
	i := sort.Search(len(m.pools), func(i int) bool { return ref < m.pools[i].limit() })
	if i == len(m.pools) {
		return nil
	}
	p := m.pools[i]
	if ref < p.base {
		return nil
	}
	return p
}

// Pools returns the managed pools in ascending block-size order. The slice is
// a copy; the pools are not.
func (m *Manager) Pools() []*Pool {
	out := make([]*Pool, len(m.pools))
	copy(out, m.pools)
	return out
}

// Classes returns the configured size classes in ascending block-size order.
func (m *Manager) Classes() []SizeClass {
	out := make([]SizeClass, len(m.pools))
	for i, p := range m.pools {
		out[i] = SizeClass{BlockSize: p.blockSize, BlockCount: p.blockCount}
	}
	return out
}

// Stats returns a snapshot of the manager's counters plus per-class pool
// stats in ascending block-size order.
func (m *Manager) Stats() ManagerStats {
	s := m.stats
	s.Classes = make([]PoolStats, len(m.pools))
	for i, p := range m.pools {
		s.Classes[i] = p.Stats()
	}
	return s
}

// Close tears down every pool. Outstanding refs become dangling. The first
// pool error is returned; all pools are closed regardless. Idempotent.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.closePools()
}

func (m *Manager) closePools() error {
	var first error
	for _, p := range m.pools {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
