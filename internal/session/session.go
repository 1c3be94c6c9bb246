// Package session manages user accounts and the active session.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vjsonic/sonic/internal/store"
)

// Account errors surfaced to the caller. The presentation layer turns
// these into user-visible messages.
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a registered account. The password itself is never held on
// the struct; only its bcrypt hash is stored.
type User struct {
	ID        string
	Username  string
	CreatedAt int64
}

// Manager provides account operations on top of the store.
type Manager struct {
	store *store.Store
}

// New creates a session manager bound to the given store.
func New(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Create registers a new account and makes it the current user.
// Fails with ErrUsernameTaken when the username is already registered.
func (m *Manager) Create(username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().Unix(),
	}

	err = m.store.WithTx(func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO users (id, username, password_hash, created_at)
			VALUES (?, ?, ?, ?)
		`, user.ID, user.Username, string(hash), user.CreatedAt)
		if err != nil {
			return err
		}

		return setCurrent(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and makes the account the current user.
// Fails with ErrUserNotFound when no account has the username, and
// with ErrInvalidCredentials when the password does not match.
func (m *Manager) Login(username, password string) (*User, error) {
	var user User
	err := m.store.WithTx(func(tx *sql.Tx) error {
		var hash string
		err := tx.QueryRow(`
			SELECT id, username, password_hash, created_at
			FROM users
			WHERE username = ?
		`, username).Scan(&user.ID, &user.Username, &hash, &user.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			return ErrInvalidCredentials
		}

		return setCurrent(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Current returns the user referenced by the current-user pointer, or
// nil when the pointer is unset or references a deleted account.
func (m *Manager) Current() (*User, error) {
	db := m.store.DB()
	if db == nil {
		return nil, store.ErrNotOpen
	}

	var user User
	err := db.QueryRow(`
		SELECT u.id, u.username, u.created_at
		FROM current_user c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = 1
	`).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the current-user pointer.
func (m *Manager) Logout() error {
	db := m.store.DB()
	if db == nil {
		return store.ErrNotOpen
	}
	_, err := db.Exec(`DELETE FROM current_user WHERE id = 1`)
	return err
}

// Delete removes the account and everything it owns: playlists, play
// history, and the current-user pointer when it references the
// account. The whole operation is one transaction; a failure in any
// step leaves prior state intact.
func (m *Manager) Delete(userID string) error {
	return m.store.WithTx(func(tx *sql.Tx) error {
		// playlist_songs rows go with their playlists (ON DELETE CASCADE)
		if _, err := tx.Exec(`DELETE FROM playlists WHERE owner_id = ?`, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM recently_played WHERE owner_id = ?`, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM current_user WHERE id = 1 AND user_id = ?`, userID); err != nil {
			return err
		}
		res, err := tx.Exec(`DELETE FROM users WHERE id = ?`, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func setCurrent(tx *sql.Tx, userID string) error {
	_, err := tx.Exec(`
		INSERT INTO current_user (id, user_id)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id
	`, userID)
	return err
}
