// Package config loads Posturify configuration from a config file and
// environment variables. Everything has a default so the app can boot
// without a file; credentials are validated separately so the caller can
// decide which integrations to disable.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	Roboflow  RoboflowConfig  `mapstructure:"roboflow"`
	Spotify   SpotifyConfig   `mapstructure:"spotify"`
	Detection DetectionConfig `mapstructure:"detection"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	LogLevel  string          `mapstructure:"log_level"`
}

// RoboflowConfig identifies the hosted inference model.
type RoboflowConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Project string `mapstructure:"project"`
	Version int    `mapstructure:"version"`
}

// SpotifyConfig holds Spotify OAuth credentials.
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

// DetectionConfig holds detection and reaction tuning.
type DetectionConfig struct {
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	DetectionInterval   time.Duration `mapstructure:"detection_interval"`
	DisplayInterval     time.Duration `mapstructure:"display_interval"`
	FrameStride         int           `mapstructure:"frame_stride"`
	NormalBrightness    int           `mapstructure:"normal_brightness"`
	SlouchingBrightness int           `mapstructure:"slouching_brightness"`
	AbsenceTimeout      time.Duration `mapstructure:"absence_timeout"`
	GracePeriod         time.Duration `mapstructure:"grace_period"`
	Debounce            time.Duration `mapstructure:"debounce"`
	CameraIndices       []int         `mapstructure:"camera_indices"`
}

// DashboardConfig holds the web dashboard and metrics listeners.
type DashboardConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

// Load loads configuration from the given file (optional) and environment
// variables prefixed with POSTURIFY_.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("posturify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("POSTURIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file: defaults plus environment variables.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	// Credentials default empty; registering the keys is what lets
	// AutomaticEnv surface them during unmarshal.
	v.SetDefault("roboflow.api_key", "")
	v.SetDefault("roboflow.project", "")
	v.SetDefault("roboflow.version", 1)
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")

	// Matches the dashboard's /callback route so the OAuth round trip
	// works without extra setup.
	v.SetDefault("spotify.redirect_uri", "http://localhost:8090/callback")

	v.SetDefault("detection.confidence_threshold", 0.5)
	v.SetDefault("detection.detection_interval", "200ms")
	v.SetDefault("detection.display_interval", "30ms")
	v.SetDefault("detection.frame_stride", 3)
	v.SetDefault("detection.normal_brightness", 100)
	v.SetDefault("detection.slouching_brightness", 20)
	v.SetDefault("detection.absence_timeout", "3s")
	v.SetDefault("detection.grace_period", "10s")
	v.SetDefault("detection.debounce", "500ms")
	v.SetDefault("detection.camera_indices", []int{0, 1})

	v.SetDefault("dashboard.port", 8090)
	v.SetDefault("dashboard.metrics_port", 9091)
}

func validate(cfg *Config) error {
	d := cfg.Detection
	if d.ConfidenceThreshold < 0 || d.ConfidenceThreshold > 1 {
		return fmt.Errorf("detection.confidence_threshold must be in [0,1], got %v", d.ConfidenceThreshold)
	}
	if d.NormalBrightness < 0 || d.NormalBrightness > 100 {
		return fmt.Errorf("detection.normal_brightness must be in [0,100], got %d", d.NormalBrightness)
	}
	if d.SlouchingBrightness < 0 || d.SlouchingBrightness > 100 {
		return fmt.Errorf("detection.slouching_brightness must be in [0,100], got %d", d.SlouchingBrightness)
	}
	if d.FrameStride < 1 {
		return fmt.Errorf("detection.frame_stride must be >= 1, got %d", d.FrameStride)
	}
	if d.DetectionInterval <= 0 || d.Debounce <= 0 {
		return fmt.Errorf("detection intervals must be positive")
	}
	return nil
}

// MissingCredentials reports which integrations lack credentials.
// These are warnings, not errors: monitoring still runs with the
// affected collaborator disabled.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Roboflow.APIKey == "" {
		missing = append(missing, "roboflow.api_key")
	}
	if c.Roboflow.Project == "" {
		missing = append(missing, "roboflow.project")
	}
	if c.Spotify.ClientID == "" {
		missing = append(missing, "spotify.client_id")
	}
	if c.Spotify.ClientSecret == "" {
		missing = append(missing, "spotify.client_secret")
	}
	return missing
}
