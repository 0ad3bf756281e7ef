package auth

import (
	"net/http"
	"strings"
)

// Resolver finds the acting user from the session cookie or, when a
// signing secret is configured, an Authorization bearer token.
type Resolver struct {
	Sessions SessionStore
	Tokens   *Tokens
	Cookie   string
}

func (r *Resolver) Resolve(req *http.Request) (string, error) {
	if header := req.Header.Get("Authorization"); header != "" && r.Tokens != nil {
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return "", ErrInvalidSession
		}
		return r.Tokens.Parse(raw)
	}

	cookie, err := req.Cookie(r.Cookie)
	if err != nil || cookie.Value == "" {
		return "", ErrNoCredentials
	}
	id, err := r.Sessions.Lookup(req.Context(), cookie.Value)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}
