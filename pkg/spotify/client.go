// Package spotify controls music playback through the Spotify Web API.
// Playback calls are no-op-safe: Play while playing and Pause while
// paused do nothing, and every failure is absorbed here and reported as
// a boolean.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"

	"github.com/aarnavshah12/Posturify/internal/log"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Scopes required for playback control.
var scopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-private",
}

// Config configures the Spotify client.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	TokenPath    string // path to cache the OAuth token (default: ~/.posturify/spotify_token.json)
	BaseURL      string // defaults to DefaultBaseURL
}

// Client is a Spotify Web API client with a cached OAuth token.
type Client struct {
	oauth     *oauth2.Config
	tokenPath string
	baseURL   string

	mu          sync.RWMutex
	token       *oauth2.Token
	http        *http.Client
	premium     bool
	initialized bool
}

// New creates a Spotify client. Call Initialize to load a cached token
// and verify the connection before using playback controls.
func New(cfg Config) *Client {
	if cfg.TokenPath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.TokenPath = filepath.Join(homeDir, ".posturify", "spotify_token.json")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     spotifyauth.Endpoint,
		},
		tokenPath: cfg.TokenPath,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Initialize loads a cached token and verifies it by fetching the user
// profile. Returns false when not authenticated; playback controls then
// act as logged no-ops.
func (c *Client) Initialize() bool {
	if err := c.loadToken(); err != nil {
		log.Info("spotify not authenticated", "auth_url", c.AuthURL())
		return false
	}
	return c.verify()
}

// verify checks the held token by fetching the user profile.
func (c *Client) verify() bool {
	user, err := c.currentUser()
	if err != nil {
		log.Warn("spotify token rejected, re-authentication required",
			"error", err, "auth_url", c.AuthURL())
		c.mu.Lock()
		c.token = nil
		c.http = nil
		c.mu.Unlock()
		return false
	}

	c.mu.Lock()
	c.premium = user.Product == "premium"
	c.initialized = true
	c.mu.Unlock()

	if c.premium {
		log.Info("spotify initialized, premium detected", "user", user.DisplayName)
	} else {
		log.Warn("spotify initialized without premium, playback control may be limited",
			"user", user.DisplayName)
	}
	return true
}

// IsAuthenticated reports whether the client holds a valid token.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != nil && c.token.Valid()
}

// AuthURL returns the OAuth authorization URL for user consent.
func (c *Client) AuthURL() string {
	return c.oauth.AuthCodeURL("posturify-state", oauth2.AccessTypeOffline)
}

// HandleCallback exchanges the authorization code, caches the token, and
// initializes the client.
func (c *Client) HandleCallback(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code for token: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.http = c.oauth.Client(context.Background(), token)
	c.mu.Unlock()

	if err := c.saveToken(); err != nil {
		log.Warn("failed to cache spotify token", "error", err)
	}

	if !c.verify() {
		return fmt.Errorf("token exchange succeeded but verification failed")
	}
	return nil
}

// Play starts or resumes playback. Prefers the active device, falls back
// to the first available one. No-op if already playing.
func (c *Client) Play() bool {
	if !c.ready("play") {
		return false
	}

	playback, err := c.currentPlayback()
	if err != nil {
		log.Error("failed to get current playback", "error", err)
		return false
	}

	switch {
	case playback == nil:
		// No active playback: find a device to start on.
		device, err := c.pickDevice()
		if err != nil {
			log.Warn("no spotify device available, open the app and play a song first", "error", err)
			return false
		}
		if err := c.put("/me/player/play?device_id=" + device.ID); err != nil {
			log.Error("failed to start playback", "device", device.Name, "error", err)
			return false
		}
		log.Info("started music playback", "device", device.Name)
	case !playback.IsPlaying:
		if err := c.put("/me/player/play"); err != nil {
			log.Error("failed to resume playback", "error", err)
			return false
		}
		log.Info("resumed music playback")
	default:
		log.Debug("music already playing")
	}
	return true
}

// Pause pauses playback. No-op if nothing is playing.
func (c *Client) Pause() bool {
	if !c.ready("pause") {
		return false
	}

	playback, err := c.currentPlayback()
	if err != nil {
		log.Error("failed to get current playback", "error", err)
		return false
	}
	if playback == nil || !playback.IsPlaying {
		log.Debug("no music playing, nothing to pause")
		return true
	}

	if err := c.put("/me/player/pause"); err != nil {
		log.Error("failed to pause playback", "error", err)
		return false
	}
	log.Info("paused music playback")
	return true
}

func (c *Client) ready(op string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || c.http == nil {
		log.Debug("spotify not initialized, skipping", "op", op)
		return false
	}
	return true
}

// user is the /me profile subset we care about.
type user struct {
	DisplayName string `json:"display_name"`
	Product     string `json:"product"` // "premium" or "free"
}

func (c *Client) currentUser() (*user, error) {
	var u user
	if err := c.get("/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Playback is the current playback state.
type Playback struct {
	IsPlaying bool `json:"is_playing"`
	Item      struct {
		Name    string `json:"name"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
	} `json:"item"`
}

// currentPlayback returns nil when there is no active playback (204).
func (c *Client) currentPlayback() (*Playback, error) {
	resp, err := c.do(http.MethodGet, "/me/player", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var p Playback
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode playback: %w", err)
	}
	return &p, nil
}

// Device is a Spotify Connect device.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

func (c *Client) pickDevice() (*Device, error) {
	var result struct {
		Devices []Device `json:"devices"`
	}
	if err := c.get("/me/player/devices", &result); err != nil {
		return nil, err
	}
	if len(result.Devices) == 0 {
		return nil, fmt.Errorf("no devices available")
	}
	for i := range result.Devices {
		if result.Devices[i].IsActive {
			return &result.Devices[i], nil
		}
	}
	return &result.Devices[0], nil
}

func (c *Client) get(path string, out any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) put(path string) error {
	resp, err := c.do(http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Playback control returns 204 (and sometimes 202/200).
	if resp.StatusCode >= 300 {
		return apiError(resp)
	}
	return nil
}

func (c *Client) do(method, path string, body io.Reader) (*http.Response, error) {
	c.mu.RLock()
	client := c.http
	c.mu.RUnlock()
	if client == nil {
		return nil, fmt.Errorf("not authenticated")
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return client.Do(req)
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	var e struct {
		Error struct {
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
		if e.Error.Reason == "PREMIUM_REQUIRED" {
			return fmt.Errorf("spotify premium required for playback control")
		}
		return fmt.Errorf("spotify API: %s (status %d)", e.Error.Message, resp.StatusCode)
	}
	return fmt.Errorf("spotify API status %d", resp.StatusCode)
}

func (c *Client) loadToken() error {
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("parse cached token: %w", err)
	}

	c.mu.Lock()
	c.token = &token
	c.http = c.oauth.Client(context.Background(), &token)
	c.mu.Unlock()
	return nil
}

func (c *Client) saveToken() error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == nil {
		return fmt.Errorf("no token to save")
	}

	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath, data, 0o600)
}
