package repofake

import (
	"context"
	"sync"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/notify"
)

var _ notify.ResetTokenRepo = (*FakeResetTokenRepo)(nil)

// FakeResetTokenRepo is an in-memory reset token store for tests.
type FakeResetTokenRepo struct {
	tokens map[string]*notify.ResetToken
	lock   sync.RWMutex
}

func NewFakeResetTokenRepo() *FakeResetTokenRepo {
	return &FakeResetTokenRepo{
		tokens: make(map[string]*notify.ResetToken),
	}
}

func (r *FakeResetTokenRepo) Create(_ context.Context, rt *notify.ResetToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *rt
	r.tokens[rt.Token] = &copied
	return nil
}

func (r *FakeResetTokenRepo) Get(_ context.Context, token string) (*notify.ResetToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, errs.Wrapf(errs.ErrNotFound, "[FakeResetTokenRepo.Get] token")
	}
	copied := *rt
	return &copied, nil
}

func (r *FakeResetTokenRepo) DeleteByEmail(_ context.Context, email string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for key, rt := range r.tokens {
		if rt.Email == email {
			delete(r.tokens, key)
		}
	}
	return nil
}

// Count reports the number of pending tokens, for test assertions.
func (r *FakeResetTokenRepo) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.tokens)
}
