package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/flatforum/flatforum-go/internal/crypto"
	"github.com/flatforum/flatforum-go/internal/model"
	"github.com/flatforum/flatforum-go/internal/store"
)

// tokenWindow is how far into the future a token's expiry is set, both
// at issuance and on each renewal.
const tokenWindow = time.Hour

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExpired     = errors.New("token is expired")
)

// AuthService owns the tokens collection: issuance on login, lookup,
// expiry extension, revocation, and the verification predicate that
// gates every protected operation.
type AuthService struct {
	store  *store.Store
	secret string
}

func NewAuthService(st *store.Store, secret string) *AuthService {
	return &AuthService{store: st, secret: secret}
}

// Issue authenticates a user by password digest and, on a match, stores
// and returns a fresh token expiring one hour from now.
func (s *AuthService) Issue(name, password string) (model.Token, error) {
	var u model.User
	if err := s.store.Read("users", name, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Token{}, ErrUserNotFound
		}
		return model.Token{}, fmt.Errorf("reading user: %w", err)
	}

	if !crypto.VerifyPassword(password, s.secret, u.HashedPassword) {
		return model.Token{}, ErrPasswordMismatch
	}

	id, err := crypto.RandomString(crypto.TokenLength)
	if err != nil {
		return model.Token{}, fmt.Errorf("generating token id: %w", err)
	}

	token := model.Token{
		ID:      id,
		User:    u.User,
		Expires: time.Now().Add(tokenWindow),
	}
	if err := s.store.Create("tokens", id, token); err != nil {
		return model.Token{}, fmt.Errorf("storing token: %w", err)
	}
	return token, nil
}

// Lookup returns the stored token record by id.
func (s *AuthService) Lookup(id string) (model.Token, error) {
	var t model.Token
	if err := s.store.Read("tokens", id, &t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Token{}, ErrTokenNotFound
		}
		return model.Token{}, fmt.Errorf("reading token: %w", err)
	}
	return t, nil
}

// Renew pushes the expiry of a still-valid token one hour from now.
// A token that has already expired is dead and cannot be renewed.
func (s *AuthService) Renew(id string) error {
	t, err := s.Lookup(id)
	if err != nil {
		return err
	}
	if t.Expired(time.Now()) {
		return ErrTokenExpired
	}

	t.Expires = time.Now().Add(tokenWindow)
	if err := s.store.Update("tokens", id, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("updating token: %w", err)
	}
	return nil
}

// Revoke deletes the token record.
func (s *AuthService) Revoke(id string) error {
	if err := s.store.Delete("tokens", id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Verify reports whether a token id is currently valid for the claimed
// user. It never errors: any read failure, user mismatch, or expiry
// reads as false.
func (s *AuthService) Verify(id, user string) bool {
	if id == "" {
		return false
	}
	var t model.Token
	if err := s.store.Read("tokens", id, &t); err != nil {
		return false
	}
	return t.User == user && !t.Expired(time.Now())
}
