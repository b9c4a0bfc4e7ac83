package spotify

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// authedClient returns an initialized client pointed at srv.
func authedClient(srv *httptest.Server) *Client {
	c := New(Config{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL})
	c.token = &oauth2.Token{AccessToken: "t", Expiry: time.Now().Add(time.Hour)}
	c.http = srv.Client()
	c.initialized = true
	c.premium = true
	return c
}

// playerServer fakes the subset of the Spotify API used for playback.
type playerServer struct {
	mu        sync.Mutex
	playing   bool
	noContent bool // no active playback
	devices   string
	puts      []string
}

func (p *playerServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/me/player":
			if p.noContent {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			if p.playing {
				w.Write([]byte(`{"is_playing":true}`))
			} else {
				w.Write([]byte(`{"is_playing":false}`))
			}
		case r.Method == http.MethodGet && r.URL.Path == "/me/player/devices":
			w.Write([]byte(p.devices))
		case r.Method == http.MethodPut:
			p.puts = append(p.puts, r.URL.Path+"?"+r.URL.RawQuery)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
}

func (p *playerServer) putCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.puts)
}

func TestPlay_ResumesWhenPaused(t *testing.T) {
	ps := &playerServer{playing: false}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := authedClient(srv)
	if !c.Play() {
		t.Fatal("Play failed")
	}
	if ps.putCount() != 1 {
		t.Fatalf("puts = %v, want one resume", ps.puts)
	}
}

func TestPlay_NoopWhenAlreadyPlaying(t *testing.T) {
	ps := &playerServer{playing: true}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := authedClient(srv)
	if !c.Play() {
		t.Fatal("Play failed")
	}
	if ps.putCount() != 0 {
		t.Errorf("puts = %v, want none", ps.puts)
	}
}

func TestPlay_StartsOnActiveDevice(t *testing.T) {
	ps := &playerServer{
		noContent: true,
		devices: `{"devices":[
			{"id":"d1","name":"Phone","type":"Smartphone","is_active":false},
			{"id":"d2","name":"Desk","type":"Computer","is_active":true}]}`,
	}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := authedClient(srv)
	if !c.Play() {
		t.Fatal("Play failed")
	}
	if ps.putCount() != 1 || ps.puts[0] != "/me/player/play?device_id=d2" {
		t.Errorf("puts = %v, want play on active device d2", ps.puts)
	}
}

func TestPlay_FailsWithNoDevices(t *testing.T) {
	ps := &playerServer{noContent: true, devices: `{"devices":[]}`}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := authedClient(srv)
	if c.Play() {
		t.Error("Play succeeded with no devices")
	}
}

func TestPause_NoopWhenNothingPlaying(t *testing.T) {
	ps := &playerServer{noContent: true}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := authedClient(srv)
	if !c.Pause() {
		t.Error("Pause of idle player should be a successful no-op")
	}
	if ps.putCount() != 0 {
		t.Errorf("puts = %v, want none", ps.puts)
	}
}

func TestPause_PausesWhenPlaying(t *testing.T) {
	ps := &playerServer{playing: true}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()

	c := authedClient(srv)
	if !c.Pause() {
		t.Fatal("Pause failed")
	}
	if ps.putCount() != 1 {
		t.Errorf("puts = %v, want one pause", ps.puts)
	}
}

func TestPlaybackControls_UninitializedAreSafeNoops(t *testing.T) {
	c := New(Config{ClientID: "id", ClientSecret: "secret"})
	if c.Play() {
		t.Error("Play on uninitialized client should return false")
	}
	if c.Pause() {
		t.Error("Pause on uninitialized client should return false")
	}
	if c.IsAuthenticated() {
		t.Error("uninitialized client should not report authenticated")
	}
}
