//go:build linux

package system

import (
	"fmt"
	"os/exec"
	"sync"
)

// linuxCommands drives systemd. Sleep prevention holds a systemd-inhibit
// process alive until allowSleep kills it.
type linuxCommands struct {
	mu      sync.Mutex
	inhibit *exec.Cmd
}

func newCommands() commands {
	return &linuxCommands{}
}

func (c *linuxCommands) suspend() error {
	return run("systemctl", "suspend")
}

func (c *linuxCommands) lock() error {
	return run("loginctl", "lock-session")
}

func (c *linuxCommands) preventSleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inhibit != nil {
		return nil // already held
	}
	cmd := exec.Command("systemd-inhibit",
		"--what=idle:sleep", "--who=posturify", "--why=user is present and active",
		"sleep", "infinity")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("systemd-inhibit: %w", err)
	}
	c.inhibit = cmd
	return nil
}

func (c *linuxCommands) allowSleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inhibit == nil {
		return nil
	}
	err := c.inhibit.Process.Kill()
	go c.inhibit.Wait() // reap
	c.inhibit = nil
	return err
}

func (c *linuxCommands) monitorPower(on bool) error {
	state := "off"
	if on {
		state = "on"
	}
	return run("xset", "dpms", "force", state)
}
