package transport

import (
	"net/http"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "test-api-key")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestHeaderAuth tests custom header authentication.
func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "x-sideko-key"}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "test-api-key")

	if got := req.Header.Get("x-sideko-key"); got != "test-api-key" {
		t.Errorf("Expected x-sideko-key header 'test-api-key', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestHeaderAuthEmptyKey tests that an anonymous client sends no header.
func TestHeaderAuthEmptyKey(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	APIKeyAuth().Apply(req, "")

	if _, ok := req.Header["X-Sideko-Key"]; ok {
		t.Error("Expected no x-sideko-key header for an empty key")
	}
}
