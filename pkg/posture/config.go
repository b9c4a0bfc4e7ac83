package posture

import "time"

// Config holds all tunable parameters for the posture detector.
type Config struct {
	// ConfidenceThreshold below which a classification is untrusted and
	// resolved as StateUserAbsent.
	ConfidenceThreshold float64

	// Debounce is the minimum time between two different committed states.
	Debounce time.Duration

	// GracePeriod after Start during which absence never progresses the
	// suspend timer.
	GracePeriod time.Duration

	// AbsenceTimeout is how long the user must be continuously absent
	// before the system is suspended.
	AbsenceTimeout time.Duration

	// Brightness levels (percent).
	NormalBrightness    int
	SlouchingBrightness int
	AbsentDimBrightness int
}

// DefaultConfig returns the recommended detector configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.5,
		Debounce:            500 * time.Millisecond,
		GracePeriod:         10 * time.Second,
		AbsenceTimeout:      3 * time.Second,

		NormalBrightness:    100,
		SlouchingBrightness: 20,
		AbsentDimBrightness: 30,
	}
}
