package handler

import (
	"net/http"
	"strings"

	"gratifpanel/internal/config"
)

// AuthHandler validates logins against the configured allow-list.
// No session or token is issued; the client keeps its own state.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRoutes registers auth routes on the mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.Login)
}

// Login handles POST /api/login (form fields: email, password).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		Error(w, http.StatusBadRequest, "invalid form data")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if !h.cfg.HasUsers() {
		Error(w, http.StatusForbidden, "system not configured, contact the administrator")
		return
	}

	if !h.cfg.Authenticate(email, password) {
		Error(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"email": email,
	})
}
