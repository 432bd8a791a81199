// internal/httpserver/token.go
//
// Session handles.
// The browser holds a signed HS256 JWT naming its session id, either in the
// wordzapp_session cookie or as an Authorization bearer token. The token
// carries no game state; the host behind the id owns it.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const cookieName = "wordzapp_session"

var errBadToken = errors.New("invalid session token")

// sessionClaims identifies the session a token belongs to.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// tokens signs and verifies session handles.
type tokens struct {
	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
}

// sign issues a token for sid valid for the configured TTL.
func (t tokens) sign(sid string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// parse verifies raw and returns its session id.
func (t tokens) parse(raw string) (string, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid || claims.SessionID == "" {
		return "", errBadToken
	}
	return claims.SessionID, nil
}

// setCookie writes the session cookie with appropriate security attributes.
func (t tokens) setCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if t.production {
		sameSite = http.SameSiteNoneMode // required for cross-site use when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearCookie deletes the session cookie.
func (t tokens) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.production,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
