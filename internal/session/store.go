// Package session manages login sessions as rows in the relational
// store, so they are shared across processes and survive restarts.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"csss-site/internal/models"

	"gorm.io/gorm"
)

// Store issues, resolves and revokes session tokens.
type Store struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{DB: db, TTL: ttl}
}

// newToken returns 32 bytes of randomness, hex encoded (64 chars).
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create issues a new session for the user, replacing any previous one
// so there is at most one live session per user. Both steps happen in
// one transaction; the unique index on computing_id backstops the rule
// under concurrent logins.
func (s *Store) Create(computingID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("computing_id = ?", computingID).
			Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Session{
			Token:       token,
			ComputingID: computingID,
			IssuedAt:    time.Now(),
		}).Error
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Resolve maps a token to a computing ID. Unknown or expired tokens
// resolve to "" with a nil error: callers treat that as anonymous.
func (s *Store) Resolve(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	var sess models.Session
	if err := s.DB.First(&sess, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}
	if time.Since(sess.IssuedAt) > s.TTL {
		return "", nil
	}
	return sess.ComputingID, nil
}

// Revoke deletes the session row. Idempotent: revoking an unknown
// token is not an error.
func (s *Store) Revoke(token string) error {
	if token == "" {
		return nil
	}
	if err := s.DB.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Sweep deletes sessions older than maxAge and reports how many rows
// went away. The cutoff is computed once up front so a session created
// while the sweep runs can never be caught by it.
func (s *Store) Sweep(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	res := s.DB.Where("issued_at < ?", cutoff).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
