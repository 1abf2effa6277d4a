package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/flatforum/flatforum-go/internal/crypto"
	"github.com/flatforum/flatforum-go/internal/model"
	"github.com/flatforum/flatforum-go/internal/store"
)

// MinUserLength is the exclusive lower bound on a trimmed user name.
const MinUserLength = 3

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserService owns the users collection. Every user record holds exactly
// one identity keyed by the trimmed user name, and only ever the digest
// of its password.
type UserService struct {
	store  *store.Store
	secret string
}

func NewUserService(st *store.Store, secret string) *UserService {
	return &UserService{store: st, secret: secret}
}

// Register creates a new user record. The exclusive-create semantics of
// the store guarantee an existing user is never silently overwritten.
func (s *UserService) Register(name, password string) error {
	digest, err := crypto.Hash(password, s.secret)
	if err != nil {
		return err
	}

	user := model.User{User: name, HashedPassword: digest}
	if err := s.store.Create("users", name, user); err != nil {
		if errors.Is(err, store.ErrExists) {
			return ErrUserExists
		}
		return fmt.Errorf("storing user: %w", err)
	}
	return nil
}

// Get returns the user record without its password digest.
func (s *UserService) Get(name string) (model.UserResponse, error) {
	var u model.User
	if err := s.store.Read("users", name, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, fmt.Errorf("reading user: %w", err)
	}
	return model.UserResponse{User: u.User}, nil
}

// ChangePassword re-hashes the new password and replaces the stored
// record in place.
func (s *UserService) ChangePassword(name, password string) error {
	digest, err := crypto.Hash(password, s.secret)
	if err != nil {
		return err
	}

	var u model.User
	if err := s.store.Read("users", name, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("reading user: %w", err)
	}

	u.HashedPassword = digest
	if err := s.store.Update("users", name, u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// Delete removes the user record and revokes every token issued to that
// user, so a deleted account cannot keep authenticating. Token cleanup
// is best-effort: the account itself is already gone.
func (s *UserService) Delete(name string) error {
	if err := s.store.Delete("users", name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	ids, err := s.store.List("tokens")
	if err != nil {
		slog.Warn("listing tokens for deleted user", "user", name, "error", err)
		return nil
	}
	for _, id := range ids {
		var t model.Token
		if err := s.store.Read("tokens", id, &t); err != nil || t.User != name {
			continue
		}
		if err := s.store.Delete("tokens", id); err != nil && !errors.Is(err, store.ErrNotFound) {
			slog.Warn("revoking token for deleted user", "user", name, "token", id, "error", err)
		}
	}
	return nil
}
