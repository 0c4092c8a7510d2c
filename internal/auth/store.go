// Package auth owns the process-wide user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/seed"
)

const (
	TopicUsers        = "user_events"
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = fmt.Errorf("username already exists: %w", domain.ErrConflict)
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

type SignupRequest struct {
	Username string
	Password string
	Name     string
	Email    string
}

type Store struct {
	mu     sync.RWMutex
	users  []models.User
	nextID uint

	Publisher Publisher
	Now       func() time.Time
}

func NewStore() *Store {
	return &Store{nextID: 1, Now: func() time.Time { return time.Now().UTC() }}
}

// NewSeededStore hashes the plaintext seed passwords once at startup.
func NewSeededStore(records []seed.UserRecord) (*Store, error) {
	s := NewStore()
	for _, r := range records {
		role := models.Role(r.Role)
		if role != models.RoleAdmin {
			role = models.RoleStandard
		}
		if _, err := s.add(r.Username, r.Password, r.Name, r.Email, role); err != nil {
			return nil, fmt.Errorf("seed user %q: %w", r.Username, err)
		}
	}
	return s, nil
}

func (s *Store) Login(ctx context.Context, username, password string) (models.User, error) {
	s.mu.RLock()
	var found *models.User
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			found = &u
			break
		}
	}
	s.mu.RUnlock()

	if found == nil || !CheckPassword(found.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	s.publish(ctx, "user_logged_in", *found)
	return *found, nil
}

// Signup checks for a duplicate username before anything else, so a taken
// name fails regardless of password validity. New users are always standard.
func (s *Store) Signup(ctx context.Context, req SignupRequest) (models.User, error) {
	username := strings.TrimSpace(req.Username)
	if s.taken(username) {
		return models.User{}, ErrUsernameTaken
	}
	if len(req.Password) < MinPasswordLength {
		return models.User{}, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(req.Password) > MaxPasswordLength {
		return models.User{}, domain.Invalid("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordLength))
	}
	if username == "" {
		return models.User{}, domain.Invalid("username", "required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.User{}, domain.Invalid("name", "required")
	}

	u, err := s.add(username, req.Password, name, strings.TrimSpace(req.Email), models.RoleStandard)
	if err != nil {
		return models.User{}, err
	}
	logging.FromContext(ctx).Info("signup_success", "user_id", u.ID, "username", u.Username)
	s.publish(ctx, "user_registered", u)
	return u, nil
}

func (s *Store) Get(id uint) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) taken(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) add(username, password, name, email string, role models.Role) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return models.User{}, ErrUsernameTaken
		}
	}
	u := models.User{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Email:        email,
		JoinDate:     s.Now(),
	}
	s.nextID++
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) publish(ctx context.Context, typ string, u models.User) {
	if s.Publisher == nil {
		return
	}
	event := map[string]any{
		"type":     typ,
		"userID":   u.ID,
		"username": u.Username,
	}
	if err := s.Publisher.Publish(ctx, TopicUsers, strconv.FormatUint(uint64(u.ID), 10), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", TopicUsers, "error", err)
	}
}
