// Package brightness controls screen brightness. Failures are absorbed
// here and reported as a boolean; callers never see a panic or error
// from a brightness change.
package brightness

import (
	"sync"
	"time"

	"github.com/aarnavshah12/Posturify/internal/log"
)

// backend applies a brightness level to the hardware. One implementation
// per platform, selected by build tags.
type backend interface {
	set(percent int) error
	get() (int, error)
}

// Controller serializes brightness changes and clamps levels to 0-100.
type Controller struct {
	mu      sync.Mutex
	backend backend
	current int
}

// NewController creates a controller for the current platform.
func NewController() *Controller {
	c := &Controller{
		backend: newBackend(),
		current: 100,
	}
	if cur, err := c.backend.get(); err == nil {
		c.current = cur
		log.Info("current brightness", "percent", cur)
	} else {
		log.Warn("could not read current brightness, assuming 100%", "error", err)
	}
	return c
}

// Set sets brightness to percent, clamped to 0-100. Returns false on
// failure; the failure is logged and never propagated.
func (c *Controller) Set(percent int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(percent)
}

func (c *Controller) setLocked(percent int) bool {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	if err := c.backend.set(percent); err != nil {
		log.Error("failed to set brightness", "percent", percent, "error", err)
		return false
	}

	c.current = percent
	log.Debug("brightness set", "percent", percent)
	return true
}

// Current returns the last successfully applied brightness level.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Fade gradually steps brightness to target over the given duration.
// Blocking; intended for manual dashboard use, not the absence path,
// which dims immediately.
func (c *Controller) Fade(target int, duration time.Duration, steps int) bool {
	if steps < 1 {
		steps = 1
	}

	c.mu.Lock()
	start := c.current
	c.mu.Unlock()

	stepSize := float64(target-start) / float64(steps)
	stepDur := duration / time.Duration(steps)

	for i := 1; i <= steps; i++ {
		level := start + int(stepSize*float64(i))
		if !c.Set(level) {
			return false
		}
		time.Sleep(stepDur)
	}
	return c.Set(target)
}
