package pool

// bitset tracks the allocated/free tag bit per block. One bit of overhead per
// block buys double-free detection in strict mode.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)   { b[i>>6] |= 1 << (uint(i) & 63) }
func (b bitset) clear(i int) { b[i>>6] &^= 1 << (uint(i) & 63) }

func (b bitset) test(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }
