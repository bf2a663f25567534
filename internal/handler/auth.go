package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/flashcard/internal/auth"
	"github.com/sakif/flashcard/internal/service"
)

// AuthHandler exposes registration, password login and the session cookie.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account
//   - HandleLogin    → check the password, set the JWT cookie
//   - HandleLogout   → clear the JWT cookie
//   - HandleMe       → return the currently logged-in user
type AuthHandler struct {
	auth     *service.AuthService
	tokenTTL int // cookie MaxAge in seconds
	logger   *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		tokenTTL: int(tokens.TTL().Seconds()),
		logger:   logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates an account. It does not log the user in.
//
// HTTP: POST /auth/register
// REQUEST BODY: {"username": "alice", "password": "correct horse"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies the password and stores the session token in an
// HttpOnly cookie.
//
// HTTP: POST /auth/login
//
// HttpOnly keeps the token away from JavaScript. SameSite=Lax means the
// cookie is not sent on cross-site POSTs. Secure should be set when served
// over HTTPS.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.tokenTTL,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /auth/logout
//
// Sessions are stateless, so the token stays valid until it expires; without
// the cookie the browser simply stops sending it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's account.
//
// HTTP: GET /auth/me
// Auth: Required (RequireAuth puts the user in the context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	var id string
	if current := auth.CurrentUserFromContext(r.Context()); current != nil {
		id = current.ID
	}

	user, err := h.auth.GetUserByID(r.Context(), id)
	if err != nil {
		h.logger.Warn("HandleMe: user lookup failed",
			slog.String("userID", id),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
