package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureUser inserts the user when missing and reports whether it did.
// An existing user keeps its password hash.
func (s *Store) EnsureUser(ctx context.Context, email, passwordHash string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`), email, passwordHash, now())
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`), email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

// PasswordHash returns the stored hash for email or ErrNotFound.
func (s *Store) PasswordHash(ctx context.Context, email string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT password_hash FROM users WHERE email = ?`), email).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query user %s: %w", email, err)
	}
	return hash, nil
}
