package repofake

import (
	"context"
	"sync"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/token"
)

var _ token.RefreshTokenRepo = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo is an in-memory refresh token store for tests.
type FakeRefreshTokenRepo struct {
	tokens map[string]*token.RefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*token.RefreshToken),
	}
}

func (r *FakeRefreshTokenRepo) Upsert(_ context.Context, rt *token.RefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *rt
	r.tokens[rt.Token] = &copied
	return nil
}

func (r *FakeRefreshTokenRepo) Get(_ context.Context, tokenStr string) (*token.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rt, ok := r.tokens[tokenStr]
	if !ok {
		return nil, errs.Wrapf(errs.ErrNotFound, "[FakeRefreshTokenRepo.Get] token")
	}
	copied := *rt
	return &copied, nil
}

func (r *FakeRefreshTokenRepo) GetByUserID(_ context.Context, userID string) (*token.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, rt := range r.tokens {
		if rt.UserID == userID {
			copied := *rt
			return &copied, nil
		}
	}
	return nil, errs.Wrapf(errs.ErrNotFound, "[FakeRefreshTokenRepo.GetByUserID] user %q", userID)
}

func (r *FakeRefreshTokenRepo) Delete(_ context.Context, tokenStr string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[tokenStr]; !ok {
		return errs.Wrapf(errs.ErrNotFound, "[FakeRefreshTokenRepo.Delete] token")
	}
	delete(r.tokens, tokenStr)
	return nil
}

func (r *FakeRefreshTokenRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}
