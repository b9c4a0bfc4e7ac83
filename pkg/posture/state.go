// Package posture implements the posture state machine: it turns noisy
// classification results into debounced state transitions that drive
// brightness, music, and power side effects.
package posture

// State is the resolved posture of the user.
type State string

// Posture states. A session always starts in StateUserAbsent.
const (
	StateGoodPosture State = "good_posture"
	StateSlouching   State = "slouching"
	StateUserAbsent  State = "user_absent"
)

// Valid reports whether s is a known posture state.
func (s State) Valid() bool {
	switch s {
	case StateGoodPosture, StateSlouching, StateUserAbsent:
		return true
	}
	return false
}

// Brightness controls screen brightness. Implementations absorb their own
// failures and report them via the return value.
type Brightness interface {
	// Set sets brightness to percent (0-100, clamped by the implementation).
	Set(percent int) bool
}

// Music controls playback. Both calls are no-op-safe when already in the
// desired state.
type Music interface {
	Play() bool
	Pause() bool
}

// Power controls system sleep behavior. All calls are best-effort.
type Power interface {
	PreventSleep() bool
	AllowSleep() bool
	Suspend() bool
}

// Events receives notable detector events for dashboards and metrics.
// Methods are invoked with the transition lock held; implementations must
// be fast and must not call back into the detector.
type Events interface {
	StateChanged(from, to State)
	Debounced(from, to State)
	StaleDropped(seq uint64)
	Suspending()
}

// NopEvents is an Events implementation that does nothing.
type NopEvents struct{}

func (NopEvents) StateChanged(from, to State) {}
func (NopEvents) Debounced(from, to State)    {}
func (NopEvents) StaleDropped(seq uint64)     {}
func (NopEvents) Suspending()                 {}
