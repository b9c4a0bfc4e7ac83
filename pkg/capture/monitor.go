package capture

import (
	"context"
	"time"

	"github.com/aarnavshah12/Posturify/internal/log"
	"github.com/aarnavshah12/Posturify/internal/metrics"
	"github.com/aarnavshah12/Posturify/pkg/posture"
	"github.com/aarnavshah12/Posturify/pkg/roboflow"
)

// MonitorConfig tunes the acquisition loop.
type MonitorConfig struct {
	// Interval between frame reads.
	Interval time.Duration

	// FrameStride sends every Nth frame to the classifier.
	FrameStride int

	// ClassifyInterval is the minimum spacing between classification
	// dispatches, bounding API traffic when frames are read at display
	// rate. Zero means stride-only.
	ClassifyInterval time.Duration

	// InferTimeout bounds one classification round trip.
	InferTimeout time.Duration
}

// DefaultMonitorConfig returns the recommended acquisition settings.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:         30 * time.Millisecond,
		FrameStride:      3,
		ClassifyInterval: 200 * time.Millisecond,
		InferTimeout:     10 * time.Second,
	}
}

// Monitor pulls frames from the camera at a fixed cadence and dispatches
// a subset of them to the classifier. Each classification runs in its
// own goroutine so a slow inference call never stalls acquisition; the
// detector's sequence numbers keep late results from clobbering fresh
// ones.
type Monitor struct {
	cfg        MonitorConfig
	source     FrameSource
	inferencer roboflow.Inferencer
	detector   *posture.Detector
	history    *posture.History
	metrics    *metrics.Metrics

	// OnFrame, if set, receives every captured JPEG (for the dashboard
	// camera feed). Must not block.
	OnFrame func(jpeg []byte)
}

// NewMonitor creates an acquisition loop.
func NewMonitor(cfg MonitorConfig, source FrameSource, inf roboflow.Inferencer,
	det *posture.Detector, hist *posture.History, m *metrics.Metrics) *Monitor {
	if cfg.FrameStride < 1 {
		cfg.FrameStride = 1
	}
	if cfg.InferTimeout <= 0 {
		cfg.InferTimeout = DefaultMonitorConfig().InferTimeout
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultMonitorConfig().Interval
	}
	return &Monitor{
		cfg:        cfg,
		source:     source,
		inferencer: inf,
		detector:   det,
		history:    hist,
		metrics:    m,
	}
}

// Run drives the acquisition loop until ctx is cancelled or the
// detector shuts the session down.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	log.Info("acquisition loop started",
		"interval", m.cfg.Interval, "stride", m.cfg.FrameStride)

	frameCount := 0
	var lastDispatch time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("acquisition loop stopped")
			return
		case <-m.detector.Done():
			log.Info("acquisition loop stopped, session ended")
			return
		case <-ticker.C:
			jpeg, err := m.source.ReadJPEG()
			if err != nil {
				log.Warn("failed to read frame", "error", err)
				continue
			}
			m.metrics.FramesRead.Inc()

			if m.OnFrame != nil {
				m.OnFrame(jpeg)
			}

			frameCount++
			if frameCount%m.cfg.FrameStride != 0 {
				continue
			}
			if time.Since(lastDispatch) < m.cfg.ClassifyInterval {
				continue
			}
			lastDispatch = time.Now()

			// Sequence allocated at dispatch time so a delayed result
			// is recognizably stale.
			seq := m.detector.NextSeq()
			go m.classify(ctx, seq, jpeg)
		}
	}
}

// classify runs one inference round trip and applies the resolved state.
// Any failure degrades to the no-candidates path: user absent.
func (m *Monitor) classify(ctx context.Context, seq uint64, jpeg []byte) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.InferTimeout)
	defer cancel()

	start := time.Now()
	preds, err := m.inferencer.Infer(ctx, jpeg)
	m.metrics.ObserveInference(time.Since(start))
	m.metrics.FramesClassified.Inc()

	var state posture.State
	switch {
	case err != nil:
		log.Warn("inference failed, treating as user absent", "error", err)
		state = posture.StateUserAbsent
	default:
		best := roboflow.Best(preds)
		if best == nil {
			log.Debug("no predictions, user absent")
			state = posture.StateUserAbsent
		} else {
			log.Debug("detected", "class", best.Class, "confidence", best.Confidence)
			state = m.detector.Classify(best.Class, best.Confidence)
		}
	}

	m.metrics.Detections.WithLabelValues(string(state)).Inc()
	m.history.Record(time.Now(), state)
	m.detector.Apply(seq, state)
}
