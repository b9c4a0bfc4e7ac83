package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/aarnavshah12/Posturify/pkg/hub"
)

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.status())
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"summary": s.history.Summary(),
		"entries": s.history.Entries(),
	})
}

func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	logs := append([]LogEntry(nil), s.logs...)
	s.logsMu.RUnlock()
	return c.JSON(logs)
}

func (s *Server) handleSessionStart(c *fiber.Ctx) error {
	if s.OnSessionStart == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "session control not available")
	}
	if err := s.OnSessionStart(); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	s.AddLog("info", "monitoring session started")
	s.BroadcastStatus()
	return c.JSON(fiber.Map{"running": true})
}

func (s *Server) handleSessionStop(c *fiber.Ctx) error {
	if s.OnSessionStop == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "session control not available")
	}
	s.OnSessionStop()
	s.AddLog("info", "monitoring session stopped")
	s.BroadcastStatus()
	return c.JSON(fiber.Map{"running": false})
}

func (s *Server) handleSpotifyPlay(c *fiber.Ctx) error {
	if s.OnMusicPlay == nil || !s.OnMusicPlay() {
		return fiber.NewError(fiber.StatusBadGateway, "playback failed")
	}
	return c.JSON(fiber.Map{"playing": true})
}

func (s *Server) handleSpotifyPause(c *fiber.Ctx) error {
	if s.OnMusicPause == nil || !s.OnMusicPause() {
		return fiber.NewError(fiber.StatusBadGateway, "pause failed")
	}
	return c.JSON(fiber.Map{"playing": false})
}

func (s *Server) handleSpotifyAuth(c *fiber.Ctx) error {
	if s.OnSpotifyAuthURL == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "spotify not configured")
	}
	return c.JSON(fiber.Map{"auth_url": s.OnSpotifyAuthURL()})
}

func (s *Server) handleSpotifyCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing authorization code")
	}
	if s.OnSpotifyCallback == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "spotify not configured")
	}
	if err := s.OnSpotifyCallback(code); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	s.AddLog("info", "spotify account connected")
	s.BroadcastStatus()
	return c.SendString("Spotify connected. You can close this tab.")
}

func (s *Server) handleSystemLock(c *fiber.Ctx) error {
	if s.OnSystemLock == nil || !s.OnSystemLock() {
		return fiber.NewError(fiber.StatusBadGateway, "lock failed")
	}
	s.AddLog("info", "workstation locked from dashboard")
	return c.JSON(fiber.Map{"locked": true})
}

func (s *Server) handleMonitorPower(c *fiber.Ctx) error {
	on := c.QueryBool("on", true)
	if s.OnMonitorPower == nil || !s.OnMonitorPower(on) {
		return fiber.NewError(fiber.StatusBadGateway, "monitor power change failed")
	}
	return c.JSON(fiber.Map{"on": on})
}

func (s *Server) handleBrightness(c *fiber.Ctx) error {
	var req struct {
		Level  int `json:"level"`
		FadeMs int `json:"fade_ms"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var ok bool
	switch {
	case req.FadeMs > 0 && s.OnBrightnessFade != nil:
		ok = s.OnBrightnessFade(req.Level, req.FadeMs)
	case s.OnBrightnessSet != nil:
		ok = s.OnBrightnessSet(req.Level)
	}
	if !ok {
		return fiber.NewError(fiber.StatusBadGateway, "brightness change failed")
	}
	return c.JSON(fiber.Map{"level": req.Level})
}

func (s *Server) handleStatusWS(conn *websocket.Conn) {
	hub.NewClient(s.statusHub, conn).Run()
}

func (s *Server) handleLogsWS(conn *websocket.Conn) {
	hub.NewClient(s.logHub, conn).Run()
}

func (s *Server) handleCameraWS(conn *websocket.Conn) {
	hub.NewClient(s.cameraHub, conn).Run()
}
