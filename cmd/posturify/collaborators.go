package main

import (
	"fmt"

	"github.com/aarnavshah12/Posturify/internal/metrics"
	"github.com/aarnavshah12/Posturify/pkg/posture"
	"github.com/aarnavshah12/Posturify/pkg/web"
)

// Instrumented collaborator wrappers count side-effect failures.

type instrumentedBrightness struct {
	inner posture.Brightness
	m     *metrics.Metrics
}

func (b instrumentedBrightness) Set(percent int) bool {
	ok := b.inner.Set(percent)
	if !ok {
		b.m.CollaboratorFailures.WithLabelValues("brightness").Inc()
	}
	return ok
}

type instrumentedMusic struct {
	inner posture.Music
	m     *metrics.Metrics
}

func (mu instrumentedMusic) Play() bool {
	ok := mu.inner.Play()
	if !ok {
		mu.m.CollaboratorFailures.WithLabelValues("music").Inc()
	}
	return ok
}

func (mu instrumentedMusic) Pause() bool {
	ok := mu.inner.Pause()
	if !ok {
		mu.m.CollaboratorFailures.WithLabelValues("music").Inc()
	}
	return ok
}

type instrumentedPower struct {
	inner posture.Power
	m     *metrics.Metrics
}

func (p instrumentedPower) PreventSleep() bool {
	ok := p.inner.PreventSleep()
	if !ok {
		p.m.CollaboratorFailures.WithLabelValues("power").Inc()
	}
	return ok
}

func (p instrumentedPower) AllowSleep() bool {
	ok := p.inner.AllowSleep()
	if !ok {
		p.m.CollaboratorFailures.WithLabelValues("power").Inc()
	}
	return ok
}

func (p instrumentedPower) Suspend() bool {
	ok := p.inner.Suspend()
	if !ok {
		p.m.CollaboratorFailures.WithLabelValues("power").Inc()
	}
	return ok
}

// sessionEvents bridges detector events to metrics and the dashboard log.
// Invoked with the detector's transition lock held, so it must not read
// detector state back (BroadcastStatus happens on a timer instead).
type sessionEvents struct {
	metrics *metrics.Metrics
	server  *web.Server
}

func (e *sessionEvents) StateChanged(from, to posture.State) {
	e.metrics.TransitionsCommitted.WithLabelValues(string(to)).Inc()
	e.server.AddLog("state", fmt.Sprintf("posture changed: %s -> %s", from, to))
}

func (e *sessionEvents) Debounced(from, to posture.State) {
	e.metrics.TransitionsDebounced.Inc()
}

func (e *sessionEvents) StaleDropped(seq uint64) {
	e.metrics.StaleResultsDropped.Inc()
}

func (e *sessionEvents) Suspending() {
	e.server.AddLog("info", "user absent past timeout, suspending system")
}
