package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Impulsible/eventease-planner/config"
	"github.com/Impulsible/eventease-planner/internal/auth"
	"github.com/Impulsible/eventease-planner/internal/services"
	"github.com/Impulsible/eventease-planner/internal/store"
	"github.com/Impulsible/eventease-planner/types"
)

const (
	minPasswordLength = 8
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 300
)

// AuthHandler provides registration, login, and OAuth endpoints.
type AuthHandler struct {
	users    *services.UserService
	tokens   *auth.TokenService
	linker   *auth.Linker
	google   *auth.GoogleProvider
	authCfg  config.AuthConfig
	oauthCfg config.OAuthConfig
}

// NewAuthHandler constructs an AuthHandler. google may be nil, which leaves
// OAuth routes unregistered while password auth keeps working.
func NewAuthHandler(
	users *services.UserService,
	tokens *auth.TokenService,
	linker *auth.Linker,
	google *auth.GoogleProvider,
	authCfg config.AuthConfig,
	oauthCfg config.OAuthConfig,
) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		linker:   linker,
		google:   google,
		authCfg:  authCfg,
		oauthCfg: oauthCfg,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, h *AuthHandler, authn *Authenticator) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(authn.RequireAuth).Get("/me", h.Me)

	if h.google != nil {
		r.Get("/google", h.GoogleLogin)
		r.Get("/google/callback", h.GoogleCallback)
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// Register creates a password account and returns a bearer token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Email is already registered")
			return
		}
		log.Printf("auth: register: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("auth: issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	auth.SetTokenCookie(w, h.authCfg, token, h.tokens.TTL())
	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("auth: login: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("auth: issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	auth.SetTokenCookie(w, h.authCfg, token, h.tokens.TTL())
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Logout clears the token cookie. The token itself stays valid until it
// expires; there is no server-side revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, h.authCfg)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GoogleLogin starts the OAuth handshake, pinning an anti-CSRF state in a
// short-lived cookie.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		log.Printf("auth: generate state: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start sign-in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback completes the handshake: it validates state, exchanges the
// code, resolves the profile to exactly one account, and hands the browser
// a token cookie. Every failure redirects to the generic failure page.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.failOAuth(w, r, "state mismatch", err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.failOAuth(w, r, "missing code", nil)
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.failOAuth(w, r, "exchange failed", err)
		return
	}

	user, token, err := h.linker.Resolve(r.Context(), profile)
	if err != nil {
		h.failOAuth(w, r, "linking failed", err)
		return
	}

	log.Printf("auth: google sign-in for user %s", user.ID)
	auth.SetTokenCookie(w, h.authCfg, token, h.tokens.TTL())
	http.Redirect(w, r, h.oauthCfg.SuccessRedirect, http.StatusTemporaryRedirect)
}

// failOAuth logs the real reason and sends the browser to the failure page
// with no detail attached.
func (h *AuthHandler) failOAuth(w http.ResponseWriter, r *http.Request, reason string, err error) {
	if err != nil {
		log.Printf("auth: google callback: %s: %v", reason, err)
	} else {
		log.Printf("auth: google callback: %s", reason)
	}
	http.Redirect(w, r, h.oauthCfg.FailureRedirect, http.StatusTemporaryRedirect)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
