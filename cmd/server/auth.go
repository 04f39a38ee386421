package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Simplici0/servicequote/internal/auth"
	"github.com/Simplici0/servicequote/internal/store"
)

// userStore adapts store lookups to the auth package.
type userStore struct {
	st *store.Store
}

func (u userStore) PasswordHash(ctx context.Context, email string) (string, error) {
	hash, err := u.st.PasswordHash(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", auth.ErrUnknownUser
	}
	return hash, err
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_form", err.Error())
			return
		}
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}
	req.Email = strings.TrimSpace(req.Email)

	valid, err := s.auth.ValidateCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		s.internalError(w, r, "authentication error", err)
		return
	}
	if !valid {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "credenciais inválidas")
		return
	}

	s.auth.SetSessionCookie(w, req.Email)
	writeJSON(w, http.StatusOK, map[string]string{"email": req.Email})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.auth.SessionEmail(r); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
