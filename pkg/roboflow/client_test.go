package roboflow

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_ModelID(t *testing.T) {
	cases := []struct {
		project string
		version int
		want    string
	}{
		{"posture-check", 2, "posture-check/2"},
		{"workspace/posture-check", 2, "posture-check/2"},
		{"a/b/c", 1, "b/c/1"},
	}
	for _, tc := range cases {
		c, err := NewClient(Config{APIKey: "k", Project: tc.project, Version: tc.version})
		if err != nil {
			t.Fatalf("NewClient(%q): %v", tc.project, err)
		}
		if c.ModelID() != tc.want {
			t.Errorf("ModelID(%q) = %q, want %q", tc.project, c.ModelID(), tc.want)
		}
	}
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient(Config{Project: "p"}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("missing key error = %v, want ErrNoAPIKey", err)
	}
	if _, err := NewClient(Config{APIKey: "k"}); !errors.Is(err, ErrNoProject) {
		t.Errorf("missing project error = %v, want ErrNoProject", err)
	}
}

func TestInfer(t *testing.T) {
	frame := []byte("not-really-a-jpeg")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posture-check/2" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "secret" {
			t.Errorf("api_key = %q", r.URL.Query().Get("api_key"))
		}
		body, _ := io.ReadAll(r.Body)
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil || string(decoded) != string(frame) {
			t.Errorf("body not the base64 frame: %q (%v)", body, err)
		}
		w.Write([]byte(`{"predictions":[{"class":"slouching","confidence":0.87},{"class":"proper","confidence":0.12}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "secret", Project: "posture-check", Version: 2, BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	preds, err := c.Infer(context.Background(), frame)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("predictions = %d, want 2", len(preds))
	}
	best := Best(preds)
	if best.Class != "slouching" || best.Confidence != 0.87 {
		t.Errorf("best = %+v, want slouching/0.87", best)
	}
}

func TestInfer_EmptyPredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "k", Project: "p", Version: 1, BaseURL: srv.URL})
	preds, err := c.Infer(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(preds) != 0 {
		t.Errorf("predictions = %d, want 0", len(preds))
	}
	if Best(preds) != nil {
		t.Error("Best of empty set should be nil")
	}
}

func TestInfer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "k", Project: "p", Version: 1, BaseURL: srv.URL})
	if _, err := c.Infer(context.Background(), []byte("x")); err == nil {
		t.Error("expected error for non-200 status")
	}
}
