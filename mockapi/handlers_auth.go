package mockapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/darhlilove/streambase"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

type deleteProfileBody struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	a := s.accounts[body.Email]
	s.mu.Unlock()

	if a == nil || a.Kind != streambase.KindUser || !compareSecret(body.Password, a.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	s.respondWithSession(w, a)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	a := s.accounts[body.Email]
	s.mu.Unlock()

	if a == nil || a.Kind != streambase.KindAdmin ||
		!compareSecret(body.Password, a.PasswordHash) ||
		!compareSecret(body.PIN, a.PINHash) {
		writeError(w, http.StatusUnauthorized, "invalid email, password, or PIN")
		return
	}

	s.respondWithSession(w, a)
}

func (s *Server) respondWithSession(w http.ResponseWriter, a *account) {
	token, expiresAt, err := s.mintToken(a, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, streambase.LoginResult{
		Token:     token,
		Principal: a.principal(),
		ExpiresAt: &expiresAt,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg streambase.Registration
	if err := decodeBody(r, &reg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if reg.Email == "" || reg.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[reg.Email]; exists {
		writeError(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	s.accounts[reg.Email] = &account{
		ID:           uuid.New().String(),
		Name:         reg.FirstName + " " + reg.LastName,
		Email:        reg.Email,
		PasswordHash: hashSecret(reg.Password),
		Roles:        []string{"member"},
		Kind:         streambase.KindUser,
	}

	// Registration never returns a token: the client signs in explicitly.
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request, p streambase.Principal) {
	var body deleteProfileBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.accounts[p.Email]
	if a == nil || a.ID != p.ID {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if !compareSecret(body.Password, a.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "password does not match")
		return
	}

	delete(s.accounts, p.Email)
	delete(s.notifications, p.ID)
	delete(s.lists, p.ID)
	writeJSON(w, http.StatusNoContent, nil)
}
