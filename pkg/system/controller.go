// Package system controls host power state: suspend, lock, and idle
// sleep prevention. All calls are best-effort; failures are logged and
// reported as a boolean.
package system

import (
	"os/exec"
	"strings"

	"github.com/aarnavshah12/Posturify/internal/log"
)

// Controller drives the platform power commands.
type Controller struct {
	cmds commands
}

// commands is the per-platform command set, selected by build tags.
type commands interface {
	suspend() error
	lock() error
	preventSleep() error
	allowSleep() error
	monitorPower(on bool) error
}

// NewController creates a controller for the current platform.
func NewController() *Controller {
	return &Controller{cmds: newCommands()}
}

// Suspend puts the system to sleep. Fire-and-forget: the caller only
// learns whether the command was accepted.
func (c *Controller) Suspend() bool {
	if err := c.cmds.suspend(); err != nil {
		log.Error("failed to suspend system", "error", err)
		return false
	}
	log.Info("system going to sleep")
	return true
}

// Lock locks the current session.
func (c *Controller) Lock() bool {
	if err := c.cmds.lock(); err != nil {
		log.Error("failed to lock system", "error", err)
		return false
	}
	log.Info("system locked")
	return true
}

// PreventSleep stops the system from idle-sleeping while the user is
// present and active.
func (c *Controller) PreventSleep() bool {
	if err := c.cmds.preventSleep(); err != nil {
		log.Error("failed to prevent sleep", "error", err)
		return false
	}
	log.Debug("sleep prevention activated")
	return true
}

// AllowSleep removes the sleep-prevention override.
func (c *Controller) AllowSleep() bool {
	if err := c.cmds.allowSleep(); err != nil {
		log.Error("failed to allow sleep", "error", err)
		return false
	}
	log.Debug("sleep prevention deactivated")
	return true
}

// SetMonitorPower turns the display on or off.
func (c *Controller) SetMonitorPower(on bool) bool {
	if err := c.cmds.monitorPower(on); err != nil {
		log.Error("failed to set monitor power", "on", on, "error", err)
		return false
	}
	log.Info("monitor power changed", "on", on)
	return true
}

// run executes a command and wraps stderr into the error.
func run(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return &commandError{name: name, msg: msg, err: err}
		}
		return &commandError{name: name, err: err}
	}
	return nil
}

type commandError struct {
	name string
	msg  string
	err  error
}

func (e *commandError) Error() string {
	if e.msg != "" {
		return e.name + ": " + e.msg
	}
	return e.name + ": " + e.err.Error()
}

func (e *commandError) Unwrap() error { return e.err }
