//go:build !linux && !darwin && !windows

package system

import "fmt"

// stubCommands is used on platforms without a power integration.
type stubCommands struct{}

func newCommands() commands {
	return &stubCommands{}
}

func (c *stubCommands) suspend() error {
	return fmt.Errorf("suspend not supported on this platform")
}

func (c *stubCommands) lock() error {
	return fmt.Errorf("lock not supported on this platform")
}

func (c *stubCommands) preventSleep() error {
	return fmt.Errorf("sleep prevention not supported on this platform")
}

func (c *stubCommands) allowSleep() error {
	return nil
}

func (c *stubCommands) monitorPower(on bool) error {
	return fmt.Errorf("monitor power control not supported on this platform")
}
