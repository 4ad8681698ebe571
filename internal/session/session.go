// Package session keeps the simulated signed-in user. There is no real
// authentication: logging in just records who is using the task list.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pdxmph/taskflow/internal/persist"
)

// Slot is the storage slot the current user is kept in
const Slot = "taskflow_user"

// ErrInvalidEmail is returned by Login for a malformed email address
var ErrInvalidEmail = errors.New("invalid email address")

// User is the signed-in identity
type User struct {
	ID       string    `json:"id"`
	Email    string    `json:"email" validate:"required,email"`
	Name     string    `json:"name"`
	LoggedIn time.Time `json:"loggedInAt"`
}

// Manager reads and writes the current user
type Manager struct {
	storage  persist.Storage
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewManager creates a session manager over storage. A nil logger discards output.
func NewManager(storage persist.Storage, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		storage:  storage,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   logger.Named("session"),
	}
}

// Login records a user. When name is blank it is taken from the email's local part.
func (m *Manager) Login(email, name string) (User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	u := User{
		ID:       strings.ToLower(email),
		Email:    email,
		Name:     name,
		LoggedIn: m.now(),
	}
	if err := m.validate.Struct(u); err != nil {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	data, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("encoding user: %w", err)
	}
	if err := m.storage.SetItem(Slot, string(data)); err != nil {
		return User{}, fmt.Errorf("%w: saving user: %w", persist.ErrStorageUnavailable, err)
	}

	m.logger.Info("user logged in", zap.String("user", u.ID))
	return u, nil
}

// Logout forgets the current user. Logging out twice is not an error.
func (m *Manager) Logout() error {
	if err := m.storage.RemoveItem(Slot); err != nil {
		return fmt.Errorf("%w: removing user: %w", persist.ErrStorageUnavailable, err)
	}
	m.logger.Info("user logged out")
	return nil
}

// Current returns the signed-in user. ok is false when nobody is signed in
// or the stored record is unreadable.
func (m *Manager) Current() (User, bool, error) {
	raw, ok, err := m.storage.GetItem(Slot)
	if err != nil {
		return User{}, false, fmt.Errorf("%w: reading user: %w", persist.ErrStorageUnavailable, err)
	}
	if !ok {
		return User{}, false, nil
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || m.validate.Struct(u) != nil {
		m.logger.Warn("discarding unreadable user record")
		return User{}, false, nil
	}
	return u, true, nil
}
