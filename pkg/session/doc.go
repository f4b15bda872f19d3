// Package session connects the file-backed session store to net/http.
//
// A Manager resolves the session key from a Transport (a cookie by default,
// or a header), loads the record through a Store and exposes it to handlers
// as a mutable *Session in the request context. Changes are persisted right
// before the response headers go out:
//
//   - destroyed sessions are deleted and the token is cleared
//   - renewed sessions move to a fresh key and the old file is deleted
//   - modified sessions are updated; if the store rotates the key the new
//     key is sent to the client
//   - unchanged sessions get their TTL refreshed when Config.Rolling is set
//
// # Usage
//
//	store, _ := sessionstore.New("storage/sessions")
//	manager := session.New(
//	    session.WithStore(store),
//	    session.WithTTL(2*time.Hour),
//	)
//
//	mux.Handle("/", manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    sess.Set("message", "hello")
//	})))
//
// Missing, expired and corrupt sessions all look like a fresh empty session
// to handlers; corrupt records are logged at WARN level. Store I/O failures on
// load answer 500; failures while persisting are logged, since the handler
// already owns the response by then.
package session
