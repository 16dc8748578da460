//go:build !unix

package arena

// reserveMapped is unavailable without mmap support.
func reserveMapped(size int, lock bool) ([]byte, func() error, error) {
	return nil, nil, ErrUnsupported
}
