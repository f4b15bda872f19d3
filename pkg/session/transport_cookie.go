package session

import (
	"net/http"
	"time"
)

// CookieTransport implements Transport using a plain HttpOnly cookie.
// The key itself is unguessable, so the cookie is neither signed nor encrypted.
type CookieTransport struct {
	cookieName string
	path       string
	domain     string
	secure     bool
	sameSite   http.SameSite
}

// CookieOption is a functional option for CookieTransport
type CookieOption func(*CookieTransport)

// WithCookiePath sets the cookie path (default "/")
func WithCookiePath(path string) CookieOption {
	return func(t *CookieTransport) { t.path = path }
}

// WithCookieDomain sets the cookie domain
func WithCookieDomain(domain string) CookieOption {
	return func(t *CookieTransport) { t.domain = domain }
}

// WithSecureCookie sets the Secure flag
func WithSecureCookie(secure bool) CookieOption {
	return func(t *CookieTransport) { t.secure = secure }
}

// WithSameSite overrides the SameSite mode (default Lax)
func WithSameSite(mode http.SameSite) CookieOption {
	return func(t *CookieTransport) { t.sameSite = mode }
}

// NewCookieTransport creates a new cookie-based transport
func NewCookieTransport(cookieName string, opts ...CookieOption) *CookieTransport {
	t := &CookieTransport{
		cookieName: cookieName,
		path:       "/",
		sameSite:   http.SameSiteLaxMode, // CSRF protection
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetToken extracts the session key from the cookie
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	c, err := r.Cookie(t.cookieName)
	if err != nil || c.Value == "" {
		return "", ErrSessionNotFound
	}
	return c.Value, nil
}

// SetToken stores the session key in a cookie that lives as long as the session
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.cookieName,
		Value:    token,
		Path:     t.path,
		Domain:   t.domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   t.secure,
		HttpOnly: true,
		SameSite: t.sameSite,
	})
	return nil
}

// ClearToken expires the session cookie
func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.cookieName,
		Value:    "",
		Path:     t.path,
		Domain:   t.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   t.secure,
		HttpOnly: true,
		SameSite: t.sameSite,
	})
	return nil
}
