// Package web provides the real-time dashboard for a monitoring session:
// posture state, history summary, logs, and the camera feed, plus manual
// session and music controls.
package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/aarnavshah12/Posturify/internal/log"
	"github.com/aarnavshah12/Posturify/pkg/hub"
	"github.com/aarnavshah12/Posturify/pkg/posture"
)

// Status is the dashboard view of the current session.
type Status struct {
	Running          bool          `json:"running"`
	State            posture.State `json:"state"`
	AbsentForSeconds float64       `json:"absent_for_seconds"`
	UptimeSeconds    float64       `json:"uptime_seconds"`
	Brightness       int           `json:"brightness"`
	SpotifyConnected bool          `json:"spotify_connected"`
}

// LogEntry is one dashboard log line.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, state, error
	Message string `json:"message"`
}

// Server is the dashboard HTTP and websocket server. The session
// callbacks are wired by the caller before Start.
type Server struct {
	app  *fiber.App
	port int

	detector *posture.Detector
	history  *posture.History

	// Log ring (last 500 entries).
	logs   []LogEntry
	logsMu sync.RWMutex

	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub

	// Session control callbacks.
	OnSessionStart func() error
	OnSessionStop  func()

	// Music control callbacks.
	OnMusicPlay  func() bool
	OnMusicPause func() bool

	// Spotify OAuth callbacks.
	OnSpotifyAuthURL  func() string
	OnSpotifyCallback func(code string) error
	SpotifyConnected  func() bool

	// Manual system controls.
	OnSystemLock     func() bool
	OnMonitorPower   func(on bool) bool
	OnBrightnessSet  func(level int) bool
	OnBrightnessFade func(level, fadeMs int) bool

	// BrightnessNow reports the current brightness level for status.
	BrightnessNow func() int
}

// NewServer creates the dashboard server.
func NewServer(port int, detector *posture.Detector, history *posture.History) *Server {
	s := &Server{
		port:      port,
		detector:  detector,
		history:   history,
		logs:      make([]LogEntry, 0, 500),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Posturify Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/history", s.handleHistory)
	api.Get("/logs", s.handleGetLogs)
	api.Post("/session/start", s.handleSessionStart)
	api.Post("/session/stop", s.handleSessionStop)
	api.Post("/spotify/play", s.handleSpotifyPlay)
	api.Post("/spotify/pause", s.handleSpotifyPause)
	api.Get("/spotify/auth", s.handleSpotifyAuth)
	api.Post("/system/lock", s.handleSystemLock)
	api.Post("/system/monitor", s.handleMonitorPower)
	api.Post("/brightness", s.handleBrightness)

	// OAuth redirect target; must match the configured redirect URI.
	app.Get("/callback", s.handleSpotifyCallback)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until the server exits.
func (s *Server) Start(ctx context.Context) error {
	go s.statusHub.Run(ctx)
	go s.logHub.Run(ctx)
	go s.cameraHub.Run(ctx)

	log.Info("dashboard listening", "url", fmt.Sprintf("http://localhost:%d", s.port))
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// BroadcastStatus pushes the current status to all websocket clients.
func (s *Server) BroadcastStatus() {
	s.statusHub.BroadcastJSON(s.status())
}

// AddLog records a dashboard log line and broadcasts it.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// PublishFrame broadcasts a camera frame to feed viewers. Drops when no
// one is watching to avoid pointless encode traffic on the hub.
func (s *Server) PublishFrame(jpeg []byte) {
	if s.cameraHub.ClientCount() == 0 {
		return
	}
	s.cameraHub.BroadcastBinary(jpeg)
}

func (s *Server) status() Status {
	st := Status{
		Running:          s.detector.Running(),
		State:            s.detector.State(),
		AbsentForSeconds: s.detector.AbsentFor().Seconds(),
	}
	if started := s.detector.StartedAt(); !started.IsZero() {
		st.UptimeSeconds = time.Since(started).Seconds()
	}
	if s.BrightnessNow != nil {
		st.Brightness = s.BrightnessNow()
	}
	if s.SpotifyConnected != nil {
		st.SpotifyConnected = s.SpotifyConnected()
	}
	return st
}
