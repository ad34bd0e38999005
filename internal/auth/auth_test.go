package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/five82/recfetch/internal/recordings"
)

var _ recordings.Session = Static{}

func TestToken_BuildsAuthorizationHeader(t *testing.T) {
	s := Token(" https://api.example.org ", " JWT abc ")
	if s.BaseURL() != "https://api.example.org" {
		t.Fatalf("BaseURL = %q, want trimmed URL", s.BaseURL())
	}
	if got := s.AuthHeader().Get("Authorization"); got != "JWT abc" {
		t.Fatalf("Authorization = %q, want JWT abc", got)
	}

	h := s.AuthHeader()
	h.Set("Authorization", "mutated")
	if s.AuthHeader().Get("Authorization") != "JWT abc" {
		t.Fatalf("AuthHeader returned shared map")
	}
}

func TestLogin_PostsCredentialsAndReturnsSession(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/authenticate_user", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "wrong password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "JWT issued"})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// A path on the base URL is ignored, the login endpoint is rooted.
	session, err := Login(context.Background(), server.Client(), server.URL+"/ignored", "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got := session.AuthHeader().Get("Authorization"); got != "JWT issued" {
		t.Fatalf("Authorization = %q, want JWT issued", got)
	}

	_, err = Login(context.Background(), server.Client(), server.URL, "alice", "nope")
	if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "wrong password") {
		t.Fatalf("Login error = %v, want 401 wrong password", err)
	}
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/authenticate_user", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		switch r.PostForm.Get("username") {
		case "down":
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		case "notoken":
			_, _ = w.Write([]byte(`{"success": true}`))
		default:
			_, _ = w.Write([]byte(`{not-json`))
		}
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	tests := []struct {
		user string
		want string
	}{
		{"down", "status 503"},
		{"notoken", "no token"},
		{"garbled", "decode response"},
	}
	for _, tt := range tests {
		_, err := Login(context.Background(), server.Client(), server.URL, tt.user, "pw")
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("Login(%s) error = %v, want %q", tt.user, err, tt.want)
		}
	}

	if _, err := Login(context.Background(), nil, server.URL, " ", "pw"); err == nil {
		t.Fatalf("Login with blank username returned nil error")
	}
	if _, err := Login(context.Background(), nil, "", "alice", "pw"); err == nil {
		t.Fatalf("Login with empty base URL returned nil error")
	}
	if _, err := Login(context.Background(), nil, "http://", "alice", "pw"); err == nil || !strings.Contains(err.Error(), "missing host") {
		t.Fatalf("Login without host error = %v, want missing host", err)
	}
}

func TestLogin_NilClientUsesDefault(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/authenticate_user", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "JWT default"})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	session, err := Login(context.Background(), nil, server.URL, "alice", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got := session.AuthHeader().Get("Authorization"); got != "JWT default" {
		t.Fatalf("Authorization = %q, want JWT default", got)
	}
}
