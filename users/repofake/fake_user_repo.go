package repofake

import (
	"context"
	"sync"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/users"
	"github.com/google/uuid"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory user directory for tests.
type FakeUserRepo struct {
	users map[string]*users.User
	lock  sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	for _, existing := range ur.users {
		if existing.Email == user.Email {
			return errs.Wrapf(errs.ErrDuplicateUser, "[FakeUserRepo.Create] email %q", user.Email)
		}
		if user.Username != "" && existing.Username == user.Username {
			return errs.Wrapf(errs.ErrDuplicateUser, "[FakeUserRepo.Create] username %q", user.Username)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	copied := *user
	ur.users[user.ID] = &copied
	return nil
}

func (ur *FakeUserRepo) GetByField(_ context.Context, field, value string) (*users.User, error) {
	if !users.ValidLookupField(field) {
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[FakeUserRepo.GetByField] field %q", field)
	}

	ur.lock.RLock()
	defer ur.lock.RUnlock()

	for _, user := range ur.users {
		switch field {
		case users.FieldEmail:
			if user.Email == value {
				copied := *user
				return &copied, nil
			}
		case users.FieldUsername:
			if user.Username == value {
				copied := *user
				return &copied, nil
			}
		}
	}
	return nil, errs.Wrapf(errs.ErrUserNotFound, "[FakeUserRepo.GetByField] %s=%q", field, value)
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errs.Wrapf(errs.ErrUserNotFound, "[FakeUserRepo.GetByID] id %q", id)
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) Delete(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.users[id]; !ok {
		return errs.Wrapf(errs.ErrUserNotFound, "[FakeUserRepo.Delete] id %q", id)
	}
	delete(ur.users, id)
	return nil
}
