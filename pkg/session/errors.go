package session

import "errors"

var (
	// ErrSessionNotFound indicates the request carries no session token
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")
)
