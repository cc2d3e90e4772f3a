package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-med-tracker/internal/ports/auth"
)

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()

	c, err := NewClient(Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: timeout,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestVerifySession_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("unexpected authorization header: %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"user-1","email":"owner@example.com"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	claims, err := c.VerifySession(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "owner@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifySession_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad session", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	_, err := c.VerifySession(context.Background(), "tok-bad")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifySession_TimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"user_id":"user-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 50*time.Millisecond)

	// A través del Verifier entero: el wrap no puede aplanar el sentinel,
	// el middleware decide 504 contra él.
	_, err := NewVerifier(c).Verify(context.Background(), "tok-1")
	if !errors.Is(err, auth.ErrBackendTimeout) {
		t.Fatalf("expected ErrBackendTimeout, got %v", err)
	}
}

func TestVerifySession_ConnectivityClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close() // conexión rechazada a partir de acá

	c := newTestClient(t, url, time.Second)
	_, err := NewVerifier(c).Verify(context.Background(), "tok-1")
	if !errors.Is(err, auth.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if errors.Is(err, auth.ErrBackendTimeout) {
		t.Fatalf("connectivity failure must not be reported as a timeout")
	}
}

func TestVerifySession_ServerErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	_, err := c.VerifySession(context.Background(), "tok-1")
	if !errors.Is(err, auth.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable for a 5xx, got %v", err)
	}
}

func TestVerifySession_MissingUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"email":"owner@example.com"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	if _, err := c.VerifySession(context.Background(), "tok-1"); err == nil {
		t.Fatalf("expected an error for a response without user_id")
	}
}
