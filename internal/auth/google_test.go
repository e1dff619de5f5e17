package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_token"); got != "good-token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"sub": "1234567890",
			"email": "traveler@example.com",
			"name": "Test Traveler",
			"aud": "client-123"
		}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifierWithEndpoint(srv.URL)

	identity, err := v.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.Sub != "1234567890" {
		t.Errorf("Sub = %q, want %q", identity.Sub, "1234567890")
	}
	if identity.Email != "traveler@example.com" {
		t.Errorf("Email = %q", identity.Email)
	}
	if identity.Audience != "client-123" {
		t.Errorf("Audience = %q, want %q", identity.Audience, "client-123")
	}
}

func TestGoogleVerify_RejectedToken(t *testing.T) {
	// Google answers non-200 for anything that isn't a live Google-signed
	// ID token; that must surface as an error, never a zero identity.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_token"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifierWithEndpoint(srv.URL)
	if _, err := v.Verify(context.Background(), "expired-token"); err == nil {
		t.Error("Verify() should fail on a non-200 response")
	}
}

func TestGoogleVerify_MissingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email": "nosub@example.com"}`))
	}))
	defer srv.Close()

	v := NewGoogleVerifierWithEndpoint(srv.URL)
	if _, err := v.Verify(context.Background(), "weird-token"); err == nil {
		t.Error("Verify() should fail when the response has no subject")
	}
}
