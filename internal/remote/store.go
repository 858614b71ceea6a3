// Package remote pushes interval records to a remote session store and reads
// them back. The store itself is pluggable; see the rest and postgres
// subpackages.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tiliavir/worktimer/internal/model"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrNotFound    = errors.New("session not found")
	ErrConflict    = errors.New("session conflict")
)

// Conflict keys accepted by Store.Upsert.
const (
	ConflictID        = "id"
	ConflictUserStart = "user_id,start_at"
)

// DefaultFetchLimit is the number of sessions FetchLatest returns when no
// limit is given.
const DefaultFetchLimit = 50

// Store is a remote table of sessions.
type Store interface {
	Insert(ctx context.Context, s model.Session) (model.Session, error)
	Update(ctx context.Context, id string, patch model.SessionPatch) (model.Session, error)
	Upsert(ctx context.Context, s model.Session, conflictKey string) (model.Session, error)
	// FetchLatest returns up to limit sessions, newest start first.
	FetchLatest(ctx context.Context, limit int) ([]model.Session, error)
}

// Identity resolves the signed-in user. An empty id means nobody is signed in.
type Identity interface {
	UserID() (string, error)
}

// IdentityFunc adapts a function to Identity.
type IdentityFunc func() (string, error)

func (f IdentityFunc) UserID() (string, error) { return f() }

// Service guards store access behind a signed-in user.
type Service struct {
	store    Store
	identity Identity
}

// NewService returns a Service using store on behalf of identity.
func NewService(store Store, identity Identity) *Service {
	return &Service{store: store, identity: identity}
}

func (s *Service) userID() (string, error) {
	id, err := s.identity.UserID()
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}
	if id == "" {
		return "", ErrNotSignedIn
	}
	return id, nil
}

// Latest returns the newest sessions. A non-positive limit means
// DefaultFetchLimit.
func (s *Service) Latest(ctx context.Context, limit int) ([]model.Session, error) {
	if _, err := s.userID(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	sessions, err := s.store.FetchLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch latest sessions: %w", err)
	}
	return sessions, nil
}
