package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flatforum/flatforum-go/internal/model"
	"github.com/flatforum/flatforum-go/internal/store"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotAuthorized = errors.New("token does not grant access")
)

// ForumService owns the forums collection. Posts are flat (no threads);
// reads are public, mutations require the author's token.
type ForumService struct {
	store *store.Store
	auth  *AuthService
}

func NewForumService(st *store.Store, auth *AuthService) *ForumService {
	return &ForumService{store: st, auth: auth}
}

// Create stores a new post authored by the user behind tokenID. The
// token must exist, be unexpired, and resolve to a live user.
func (s *ForumService) Create(tokenID, title, description string) (model.Post, error) {
	author, err := s.authorFor(tokenID)
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now()
	post := model.Post{
		ID:          uuid.NewString(),
		Author:      author,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create("forums", post.ID, post); err != nil {
		return model.Post{}, fmt.Errorf("storing post: %w", err)
	}
	return post, nil
}

// Get returns a single post by id.
func (s *ForumService) Get(id string) (model.Post, error) {
	var p model.Post
	if err := s.store.Read("forums", id, &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("reading post: %w", err)
	}
	return p, nil
}

// ListPosts returns every stored post. Records that vanish or fail to
// decode mid-listing are skipped.
func (s *ForumService) ListPosts() ([]model.Post, error) {
	ids, err := s.store.List("forums")
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	posts := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		var p model.Post
		if err := s.store.Read("forums", id, &p); err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// Update modifies a post's title and/or description. Only a valid token
// belonging to the post's author may mutate it.
func (s *ForumService) Update(tokenID, id string, title, description *string) (model.Post, error) {
	p, err := s.Get(id)
	if err != nil {
		return model.Post{}, err
	}
	if !s.auth.Verify(tokenID, p.Author) {
		return model.Post{}, ErrNotAuthorized
	}

	if title != nil {
		p.Title = *title
	}
	if description != nil {
		p.Description = *description
	}
	p.UpdatedAt = time.Now()

	if err := s.store.Update("forums", id, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("updating post: %w", err)
	}
	return p, nil
}

// Delete removes a post on behalf of its author.
func (s *ForumService) Delete(tokenID, id string) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if !s.auth.Verify(tokenID, p.Author) {
		return ErrNotAuthorized
	}

	if err := s.store.Delete("forums", id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// authorFor resolves a token to its owning user, requiring the token to
// be unexpired and the user record to still exist.
func (s *ForumService) authorFor(tokenID string) (string, error) {
	t, err := s.auth.Lookup(tokenID)
	if err != nil {
		return "", ErrNotAuthorized
	}
	if t.Expired(time.Now()) {
		return "", ErrNotAuthorized
	}

	var u model.User
	if err := s.store.Read("users", t.User, &u); err != nil {
		return "", ErrNotAuthorized
	}
	return t.User, nil
}
