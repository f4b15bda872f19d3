package session

import (
	"net/http"
	"time"
)

// Transport defines how session keys travel between client and server
type Transport interface {
	// GetToken extracts the session key from the request
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session key in the response
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken removes the session key from the response
	ClearToken(w http.ResponseWriter) error
}
