// Package auth checks admin credentials and signs session cookies.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "servicequote_session"
	sessionTTL = 12 * time.Hour
)

var (
	// ErrUnknownUser is returned by a UserStore that has no such user.
	ErrUnknownUser = errors.New("unknown user")
	// ErrEmptySecret is returned by NewService for an empty signing secret.
	ErrEmptySecret = errors.New("session secret must not be empty")
)

// UserStore looks up stored password hashes.
type UserStore interface {
	PasswordHash(ctx context.Context, email string) (string, error)
}

type Service struct {
	users  UserStore
	secret []byte
	now    func() time.Time
}

// NewService refuses an empty secret, which would let anyone sign sessions.
func NewService(users UserStore, sessionSecret string) (*Service, error) {
	if sessionSecret == "" {
		return nil, ErrEmptySecret
	}
	return &Service{users: users, secret: []byte(sessionSecret), now: time.Now}, nil
}

// GenerateSecret returns a random hex secret for processes started without
// one. Sessions signed with it end when the process exits.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateCredentials reports whether email and password match a stored user.
// Unknown users are not an error.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
	hash, err := s.users.PasswordHash(ctx, email)
	if errors.Is(err, ErrUnknownUser) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user credentials: %w", err)
	}
	return CheckPassword(hash, password), nil
}

// SessionValue signs email and an expiry into a cookie value.
func (s *Service) SessionValue(email string) string {
	exp := s.now().Add(sessionTTL).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(email + "|" + strconv.FormatInt(exp, 10)))
	return payload + "." + s.sign(payload)
}

// VerifySession returns the email stored in a valid, unexpired session value.
func (s *Service) VerifySession(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	expected, _ := hex.DecodeString(s.sign(payload))
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	email, rawExp, ok := strings.Cut(string(decoded), "|")
	if !ok || email == "" {
		return "", false
	}
	exp, err := strconv.ParseInt(rawExp, 10, 64)
	if err != nil || s.now().Unix() > exp {
		return "", false
	}
	return email, true
}

func (s *Service) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SessionEmail returns the signed-in user of r, if any.
func (s *Service) SessionEmail(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return s.VerifySession(c.Value)
}

func (s *Service) SetSessionCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.SessionValue(email),
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Service) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
