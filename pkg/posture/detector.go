package posture

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/aarnavshah12/Posturify/internal/log"
)

// Detector owns the session clock state and converts classification
// results into debounced state transitions.
//
// Classification calls may overlap in time, so each detection is tagged
// with a sequence number at dispatch time (NextSeq) and results that
// arrive after a newer one has been applied are discarded. Transition
// handling itself is serialized under a single mutex.
type Detector struct {
	cfg    Config
	clk    clock.Clock
	events Events

	brightness Brightness
	music      Music
	power      Power

	seq atomic.Uint64

	mu          sync.Mutex
	state       State
	lastChange  time.Time
	absentSince time.Time // zero while not in an absent streak
	startedAt   time.Time // zero until Start
	running     bool
	lastApplied uint64

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a detector wired to the given collaborators.
func New(cfg Config, brightness Brightness, music Music, power Power) *Detector {
	d := &Detector{
		cfg:        cfg,
		clk:        clock.New(),
		events:     NopEvents{},
		brightness: brightness,
		music:      music,
		power:      power,
		state:      StateUserAbsent,
		done:       make(chan struct{}),
	}
	d.lastChange = d.clk.Now()
	return d
}

// SetClock replaces the detector clock. Call before Start; used by tests
// to drive the debounce, grace, and absence timers deterministically.
func (d *Detector) SetClock(clk clock.Clock) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clk = clk
	d.lastChange = clk.Now()
}

// SetEvents registers an event listener. Call before Start.
func (d *Detector) SetEvents(ev Events) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ev != nil {
		d.events = ev
	}
}

// Start marks the beginning of a monitoring session and opens the grace
// period during which absence never triggers suspension.
func (d *Detector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	select {
	case <-d.done:
		// Previous session ended in a suspend; arm a fresh shutdown signal.
		d.done = make(chan struct{})
		d.doneOnce = sync.Once{}
	default:
	}

	d.running = true
	d.startedAt = d.clk.Now()
	d.absentSince = time.Time{}
	log.Info("monitoring started, grace period active", "grace", d.cfg.GracePeriod)
}

// Stop ends the session and restores normal brightness.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.running = false
	d.absentSince = time.Time{}
	d.brightness.Set(d.cfg.NormalBrightness)
	log.Info("monitoring stopped")
}

// Done returns a channel closed when the absence timeout fires and the
// session shuts itself down. Start arms a fresh channel, so callers
// driving a loop should re-fetch it rather than hold one across sessions.
func (d *Detector) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// Running reports whether the session is live.
func (d *Detector) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// State returns the current posture state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// AbsentFor returns how long the current unbroken absent streak has
// lasted, or zero when the user is not absent.
func (d *Detector) AbsentFor() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.absentSince.IsZero() {
		return 0
	}
	return d.clk.Now().Sub(d.absentSince)
}

// StartedAt returns when the session started (zero before Start).
func (d *Detector) StartedAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.startedAt
}

// NextSeq allocates a sequence number for a detection about to be
// dispatched. Allocate at capture time, before the classification call,
// so delayed results can be recognized as stale.
func (d *Detector) NextSeq() uint64 {
	return d.seq.Add(1)
}

// Classify resolves a raw classification label and confidence into a
// posture state. Low-confidence and unrecognized labels resolve to
// StateUserAbsent: when uncertain, assume absence rather than leave the
// screen dim or music paused indefinitely.
func (d *Detector) Classify(label string, confidence float64) State {
	if confidence < d.cfg.ConfidenceThreshold {
		log.Debug("low confidence detection, treating as user absent",
			"class", label, "confidence", confidence)
		return StateUserAbsent
	}

	switch label {
	case "proper", "good_posture", "sitting":
		return StateGoodPosture
	case "slouching", "bad_posture":
		return StateSlouching
	case "leave", "standing", "absent", "no_person":
		return StateUserAbsent
	default:
		log.Warn("unknown class detected", "class", label)
		return StateUserAbsent
	}
}

// HandleState submits a resolved state with a freshly allocated sequence
// number. Use Apply directly when the sequence number was allocated at
// dispatch time.
func (d *Detector) HandleState(state State) {
	d.Apply(d.NextSeq(), state)
}

// Apply handles a resolved state for the detection with the given
// sequence number. Safe to call from any goroutine; the body is
// serialized under the transition lock.
func (d *Detector) Apply(seq uint64, state State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		log.Debug("detection discarded, session not running", "state", state)
		return
	}
	if seq <= d.lastApplied {
		log.Debug("stale detection discarded", "seq", seq, "latest", d.lastApplied)
		d.events.StaleDropped(seq)
		return
	}
	d.lastApplied = seq

	now := d.clk.Now()

	if state != d.state {
		if now.Sub(d.lastChange) < d.cfg.Debounce {
			log.Debug("state change ignored due to debouncing",
				"from", d.state, "to", state,
				"since_last_change", now.Sub(d.lastChange))
			d.events.Debounced(d.state, state)
			return
		}

		from := d.state
		d.state = state
		d.lastChange = now
		log.Info("state change", "from", from, "to", state)
		d.events.StateChanged(from, state)

		switch state {
		case StateGoodPosture:
			d.handleGoodPosture()
		case StateSlouching:
			d.handleSlouching()
		case StateUserAbsent:
			d.handleUserAbsent(now)
		}
		return
	}

	// Reinforcement while already absent bypasses debounce so the
	// absence timer keeps progressing.
	if state == StateUserAbsent {
		d.handleUserAbsent(now)
	}
}

func (d *Detector) handleGoodPosture() {
	log.Info("good posture detected, restoring brightness and music",
		"brightness", d.cfg.NormalBrightness)
	d.brightness.Set(d.cfg.NormalBrightness)
	d.music.Play()
	d.power.PreventSleep()
	d.absentSince = time.Time{}
}

func (d *Detector) handleSlouching() {
	log.Info("slouching detected, dimming and pausing music",
		"brightness", d.cfg.SlouchingBrightness)
	d.brightness.Set(d.cfg.SlouchingBrightness)
	d.music.Pause()
	d.power.AllowSleep()
	d.absentSince = time.Time{}
}

// handleUserAbsent runs on every absent detection, fresh transition or
// reinforcement. Caller holds the lock.
func (d *Detector) handleUserAbsent(now time.Time) {
	if !d.startedAt.IsZero() {
		if elapsed := now.Sub(d.startedAt); elapsed < d.cfg.GracePeriod {
			log.Debug("grace period active, skipping sleep check",
				"elapsed", elapsed, "grace", d.cfg.GracePeriod)
			return
		}
	}

	if d.absentSince.IsZero() {
		d.absentSince = now
		d.brightness.Set(d.cfg.AbsentDimBrightness)
		log.Info("user absent, brightness dimmed",
			"brightness", d.cfg.AbsentDimBrightness)
	}

	absent := now.Sub(d.absentSince)
	log.Debug("user absent", "for", absent)

	if absent >= d.cfg.AbsenceTimeout {
		log.Info("user absent past timeout, suspending system", "absent", absent)

		d.brightness.Set(0)
		if !d.power.Suspend() {
			log.Error("system suspend failed")
		}

		// Mark not-running either way so a failed suspend is not
		// retried on every subsequent detection.
		d.running = false
		d.events.Suspending()
		d.doneOnce.Do(func() { close(d.done) })
	}
}
