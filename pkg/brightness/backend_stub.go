//go:build !linux && !darwin && !windows

package brightness

import "fmt"

// stubBackend is used on platforms without a brightness integration.
type stubBackend struct{}

func newBackend() backend {
	return &stubBackend{}
}

func (b *stubBackend) set(percent int) error {
	return fmt.Errorf("brightness control not supported on this platform")
}

func (b *stubBackend) get() (int, error) {
	return 0, fmt.Errorf("brightness control not supported on this platform")
}
