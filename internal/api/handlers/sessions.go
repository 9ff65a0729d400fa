package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/monify-app/monify/internal/api/middleware"
)

// User is the simulated account attached to a session.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	IsPro bool   `json:"isPro"`
}

// Sessions is the in-memory registry for the login simulation. Any name
// logs in; tokens live until logout or process exit.
type Sessions struct {
	mu     sync.RWMutex
	active map[string]User
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{active: make(map[string]User)}
}

// Valid implements middleware.SessionValidator.
func (s *Sessions) Valid(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[token]
	return ok
}

// Create registers a new session and returns its token.
func (s *Sessions) Create(u User) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.active[token] = u
	s.mu.Unlock()
	return token
}

// Drop removes a session.
func (s *Sessions) Drop(token string) {
	s.mu.Lock()
	delete(s.active, token)
	s.mu.Unlock()
}

// AuthHandler exposes the simulated login endpoints.
type AuthHandler struct {
	sessions *Sessions
	log      zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *Sessions, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, log: log}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	user := User{
		Name:  req.Name,
		Email: req.Email,
		// Pro flag is part of the simulation; monify.app addresses get it.
		IsPro: strings.HasSuffix(strings.ToLower(req.Email), "@monify.app"),
	}
	token := h.sessions.Create(user)

	h.log.Info().Str("user", user.Name).Msg("Session created")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session-Token")
	if token != "" {
		h.sessions.Drop(token)
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
