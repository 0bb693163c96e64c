package auth

import (
	"net/http"
	"time"

	"github.com/Impulsible/eventease-planner/config"
)

// TokenCookieName is the cookie carrying the bearer token for browser
// clients. The Authorization header takes precedence when both are present.
const TokenCookieName = "token"

// SetTokenCookie issues the token cookie. Its max-age matches the token
// lifetime so the browser drops it roughly when the token stops verifying.
func SetTokenCookie(w http.ResponseWriter, cfg config.AuthConfig, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}

// ClearTokenCookie removes the token cookie from the client.
func ClearTokenCookie(w http.ResponseWriter, cfg config.AuthConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}
