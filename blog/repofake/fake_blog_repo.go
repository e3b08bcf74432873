package repofake

import (
	"context"
	"sort"
	"sync"

	"github.com/blogsmith/blogsmith/blog"
	errs "github.com/blogsmith/blogsmith/internal/errors"
)

var _ blog.Repo = (*FakeBlogRepo)(nil)

// FakeBlogRepo is an in-memory post and comment store for tests.
type FakeBlogRepo struct {
	posts    map[string]*blog.Post
	comments map[string]*blog.Comment
	lock     sync.RWMutex
}

func NewFakeBlogRepo() *FakeBlogRepo {
	return &FakeBlogRepo{
		posts:    make(map[string]*blog.Post),
		comments: make(map[string]*blog.Comment),
	}
}

func (r *FakeBlogRepo) CreatePost(_ context.Context, post *blog.Post) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *FakeBlogRepo) GetPost(_ context.Context, id string) (*blog.Post, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, errs.Wrapf(errs.ErrNotFound, "[FakeBlogRepo.GetPost] id %q", id)
	}
	copied := *post
	return &copied, nil
}

func (r *FakeBlogRepo) ListPosts(_ context.Context, limit, offset int) ([]*blog.Post, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*blog.Post, 0, len(r.posts))
	for _, post := range r.posts {
		copied := *post
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *FakeBlogRepo) UpdatePost(_ context.Context, post *blog.Post) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return errs.Wrapf(errs.ErrNotFound, "[FakeBlogRepo.UpdatePost] id %q", post.ID)
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *FakeBlogRepo) DeletePost(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.posts[id]; !ok {
		return errs.Wrapf(errs.ErrNotFound, "[FakeBlogRepo.DeletePost] id %q", id)
	}
	delete(r.posts, id)
	for key, comment := range r.comments {
		if comment.PostID == id {
			delete(r.comments, key)
		}
	}
	return nil
}

func (r *FakeBlogRepo) CreateComment(_ context.Context, comment *blog.Comment) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *FakeBlogRepo) ListComments(_ context.Context, postID string) ([]*blog.Comment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var out []*blog.Comment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			copied := *comment
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
