package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aarnavshah12/Posturify/internal/config"
	"github.com/aarnavshah12/Posturify/internal/log"
	"github.com/aarnavshah12/Posturify/internal/metrics"
	"github.com/aarnavshah12/Posturify/pkg/brightness"
	"github.com/aarnavshah12/Posturify/pkg/capture"
	"github.com/aarnavshah12/Posturify/pkg/posture"
	"github.com/aarnavshah12/Posturify/pkg/roboflow"
	"github.com/aarnavshah12/Posturify/pkg/spotify"
	"github.com/aarnavshah12/Posturify/pkg/system"
	"github.com/aarnavshah12/Posturify/pkg/web"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file (default: ./posturify.yaml)")
	autostart := flag.Bool("autostart", true, "Start monitoring immediately")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)

	fmt.Println("🧍 Posturify")
	fmt.Printf("   Dashboard: http://localhost:%d\n", cfg.Dashboard.Port)
	fmt.Printf("   Metrics:   http://localhost:%d/metrics\n", cfg.Dashboard.MetricsPort)
	fmt.Println()

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		log.Warn("missing credentials, related features disabled", "keys", missing)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		cancel()
	}()

	m := metrics.New()
	go func() {
		if err := m.Serve(cfg.Dashboard.MetricsPort); err != nil {
			log.Error("metrics server exited", "error", err)
		}
	}()

	bright := brightness.NewController()
	power := system.NewController()

	var music posture.Music = noopMusic{}
	var sp *spotify.Client
	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		sp = spotify.New(spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RedirectURI:  cfg.Spotify.RedirectURI,
		})
		sp.Initialize()
		music = sp
	}

	var inferencer roboflow.Inferencer
	if cfg.Roboflow.APIKey != "" && cfg.Roboflow.Project != "" {
		client, err := roboflow.NewClient(roboflow.Config{
			APIKey:  cfg.Roboflow.APIKey,
			Project: cfg.Roboflow.Project,
			Version: cfg.Roboflow.Version,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "roboflow setup failed: %v\n", err)
			os.Exit(1)
		}
		inferencer = client
	}

	detector := posture.New(detectorConfig(cfg),
		instrumentedBrightness{bright, m},
		instrumentedMusic{music, m},
		instrumentedPower{power, m},
	)
	history := posture.NewHistory()

	server := web.NewServer(cfg.Dashboard.Port, detector, history)
	server.BrightnessNow = bright.Current
	server.OnBrightnessSet = bright.Set
	server.OnBrightnessFade = func(level, fadeMs int) bool {
		return bright.Fade(level, time.Duration(fadeMs)*time.Millisecond, 10)
	}
	server.OnSystemLock = power.Lock
	server.OnMonitorPower = power.SetMonitorPower
	if sp != nil {
		server.OnMusicPlay = sp.Play
		server.OnMusicPause = sp.Pause
		server.OnSpotifyAuthURL = sp.AuthURL
		server.OnSpotifyCallback = sp.HandleCallback
		server.SpotifyConnected = sp.IsAuthenticated
	}

	detector.SetEvents(&sessionEvents{metrics: m, server: server})

	a := &app{
		cfg:        cfg,
		detector:   detector,
		history:    history,
		inferencer: inferencer,
		metrics:    m,
		server:     server,
		power:      power,
	}
	server.OnSessionStart = func() error { return a.startSession(ctx) }
	server.OnSessionStop = a.stopSession

	// Periodic status push for dashboard clients.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				server.BroadcastStatus()
			}
		}
	}()

	if *autostart {
		if err := a.startSession(ctx); err != nil {
			log.Warn("autostart skipped, start a session from the dashboard",
				"error", err)
		}
	}

	go func() {
		if err := server.Start(ctx); err != nil {
			log.Error("dashboard server exited", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	a.stopSession()
	a.closeCamera()
	if err := server.Shutdown(); err != nil {
		log.Error("dashboard shutdown failed", "error", err)
	}
	fmt.Println("👋 Goodbye!")
}

func detectorConfig(cfg *config.Config) posture.Config {
	d := cfg.Detection
	return posture.Config{
		ConfidenceThreshold: d.ConfidenceThreshold,
		Debounce:            d.Debounce,
		GracePeriod:         d.GracePeriod,
		AbsenceTimeout:      d.AbsenceTimeout,
		NormalBrightness:    d.NormalBrightness,
		SlouchingBrightness: d.SlouchingBrightness,
		AbsentDimBrightness: posture.DefaultConfig().AbsentDimBrightness,
	}
}

// app owns the session lifecycle: the camera stays open across sessions,
// each session gets its own acquisition loop and cancel func.
type app struct {
	cfg        *config.Config
	detector   *posture.Detector
	history    *posture.History
	inferencer roboflow.Inferencer
	metrics    *metrics.Metrics
	server     *web.Server
	power      *system.Controller

	mu            sync.Mutex
	camera        *capture.Camera
	cancelSession context.CancelFunc
}

func (a *app) startSession(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.detector.Running() {
		return errors.New("session already running")
	}
	if a.inferencer == nil {
		return errors.New("roboflow credentials not configured")
	}

	if a.camera == nil {
		cam, err := capture.OpenCamera(a.cfg.Detection.CameraIndices)
		if err != nil {
			return fmt.Errorf("open camera: %w", err)
		}
		a.camera = cam
	}

	a.history.Reset()
	a.detector.Start()
	a.power.PreventSleep()

	sctx, cancel := context.WithCancel(ctx)
	a.cancelSession = cancel

	mon := capture.NewMonitor(capture.MonitorConfig{
		Interval:         a.cfg.Detection.DisplayInterval,
		FrameStride:      a.cfg.Detection.FrameStride,
		ClassifyInterval: a.cfg.Detection.DetectionInterval,
	}, a.camera, a.inferencer, a.detector, a.history, a.metrics)
	mon.OnFrame = a.server.PublishFrame

	go func() {
		mon.Run(sctx)
		a.power.AllowSleep()
	}()

	return nil
}

func (a *app) stopSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancelSession != nil {
		a.cancelSession()
		a.cancelSession = nil
	}
	a.detector.Stop()
	a.power.AllowSleep()
}

func (a *app) closeCamera() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.camera != nil {
		a.camera.Close()
		a.camera = nil
	}
}

// noopMusic stands in when Spotify is not configured.
type noopMusic struct{}

func (noopMusic) Play() bool  { return true }
func (noopMusic) Pause() bool { return true }
