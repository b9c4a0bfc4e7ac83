//go:build darwin

package system

import (
	"fmt"
	"os/exec"
	"sync"
)

// darwinCommands drives pmset. Sleep prevention holds a caffeinate
// process alive until allowSleep kills it.
type darwinCommands struct {
	mu         sync.Mutex
	caffeinate *exec.Cmd
}

func newCommands() commands {
	return &darwinCommands{}
}

func (c *darwinCommands) suspend() error {
	return run("pmset", "sleepnow")
}

func (c *darwinCommands) lock() error {
	return run("/System/Library/CoreServices/Menu Extras/User.menu/Contents/Resources/CGSession", "-suspend")
}

func (c *darwinCommands) preventSleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.caffeinate != nil {
		return nil // already held
	}
	cmd := exec.Command("caffeinate", "-di")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("caffeinate: %w", err)
	}
	c.caffeinate = cmd
	return nil
}

func (c *darwinCommands) allowSleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.caffeinate == nil {
		return nil
	}
	err := c.caffeinate.Process.Kill()
	go c.caffeinate.Wait() // reap
	c.caffeinate = nil
	return err
}

func (c *darwinCommands) monitorPower(on bool) error {
	if on {
		// Waking the display needs user input; caffeinate -u simulates it.
		return run("caffeinate", "-u", "-t", "1")
	}
	return run("pmset", "displaysleepnow")
}
