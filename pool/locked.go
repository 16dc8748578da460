package pool

import "sync"

// LockedPool is the recommended concurrency discipline from the package doc
// made concrete: one exclusive lock per pool, so contention never crosses
// size classes. Every method is the Pool method under the mutex.
type LockedPool struct {
	mu sync.Mutex
	p  *Pool
}

// NewLocked constructs a standalone pool wrapped with its own mutex.
func NewLocked(blockSize, blockCount int32, opts *Options) (*LockedPool, error) {
	p, err := New(blockSize, blockCount, opts)
	if err != nil {
		return nil, err
	}
	return &LockedPool{p: p}, nil
}

func (l *LockedPool) Alloc() (Ref, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Alloc()
}

func (l *LockedPool) Free(ref Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Free(ref)
}

func (l *LockedPool) Bytes(ref Ref) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Bytes(ref)
}

func (l *LockedPool) FreeCount() int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.FreeCount()
}

func (l *LockedPool) Stats() PoolStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Stats()
}

func (l *LockedPool) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Close()
}

// LockedManager wraps a Manager with a single mutex. Routing shares counters
// across classes, so per-pool locks would not make the manager path safe on
// their own; hosts that need per-class concurrency should hold one LockedPool
// per class instead.
type LockedManager struct {
	mu sync.Mutex
	m  *Manager
}

// NewLockedManager builds a Manager wrapped with a mutex.
func NewLockedManager(classes []SizeClass, opts *Options) (*LockedManager, error) {
	m, err := NewManager(classes, opts)
	if err != nil {
		return nil, err
	}
	return &LockedManager{m: m}, nil
}

func (l *LockedManager) Alloc(size int32) (Ref, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Alloc(size)
}

func (l *LockedManager) Free(ref Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Free(ref)
}

func (l *LockedManager) Bytes(ref Ref) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Bytes(ref)
}

func (l *LockedManager) Stats() ManagerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Stats()
}

func (l *LockedManager) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Close()
}
