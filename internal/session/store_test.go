package session

import (
	"path/filepath"
	"testing"
	"time"

	"csss-site/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := db.Create(&models.User{
		ComputingID: "jdo12",
		FirstSeenAt: time.Now(),
		LastSeenAt:  time.Now(),
	}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewStore(db, ttl)
}

func TestCreateAndResolve(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token, err := store.Create("jdo12")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}

	id, err := store.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != "jdo12" {
		t.Errorf("Resolve() = %q, want jdo12", id)
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	store := newTestStore(t, time.Hour)

	// unknown tokens are anonymous, not errors
	id, err := store.Resolve("deadbeef")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != "" {
		t.Errorf("Resolve(unknown) = %q, want empty", id)
	}

	id, err = store.Resolve("")
	if err != nil || id != "" {
		t.Errorf("Resolve(\"\") = (%q, %v), want empty, nil", id, err)
	}
}

func TestResolve_Expired(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token, err := store.Create("jdo12")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// age the session past the TTL
	if err := store.DB.Model(&models.Session{}).
		Where("token = ?", token).
		Update("issued_at", time.Now().Add(-2*time.Hour)).Error; err != nil {
		t.Fatalf("age session: %v", err)
	}

	id, err := store.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != "" {
		t.Errorf("Resolve(expired) = %q, want empty", id)
	}
}

// TestSingleActiveSession: creating session 2 for a user invalidates
// session 1.
func TestSingleActiveSession(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token1, err := store.Create("jdo12")
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	token2, err := store.Create("jdo12")
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if token1 == token2 {
		t.Fatal("two sessions share a token")
	}

	if id, _ := store.Resolve(token1); id != "" {
		t.Errorf("Resolve(old token) = %q, want empty", id)
	}
	if id, _ := store.Resolve(token2); id != "jdo12" {
		t.Errorf("Resolve(new token) = %q, want jdo12", id)
	}
}

func TestRevoke_Idempotent(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token, err := store.Create("jdo12")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Revoke(token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if id, _ := store.Resolve(token); id != "" {
		t.Errorf("Resolve(revoked) = %q, want empty", id)
	}
	// revoking again is fine
	if err := store.Revoke(token); err != nil {
		t.Errorf("second Revoke() error = %v", err)
	}
	if err := store.Revoke("never-existed"); err != nil {
		t.Errorf("Revoke(unknown) error = %v", err)
	}
}

func TestSweep(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token, err := store.Create("jdo12")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// fresh session survives a sweep
	n, err := store.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Sweep() removed %d rows, want 0", n)
	}
	if id, _ := store.Resolve(token); id != "jdo12" {
		t.Errorf("fresh session swept away")
	}

	// aged session goes
	if err := store.DB.Model(&models.Session{}).
		Where("token = ?", token).
		Update("issued_at", time.Now().Add(-2*time.Hour)).Error; err != nil {
		t.Fatalf("age session: %v", err)
	}
	n, err = store.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Sweep() removed %d rows, want 1", n)
	}
}
