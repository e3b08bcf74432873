// Package blog holds the content domain served behind the auth layer: posts
// and the comments attached to them.
package blog

import (
	"context"
	"strings"
	"time"

	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/users"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Post is a published article owned by a user.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// Repo persists posts and comments. Lookups for missing records return
// ErrNotFound.
type Repo interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID string) ([]*Comment, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service applies validation and ownership rules on top of the repo. Writes
// require the acting user to own the record; reads are open.
type Service struct {
	repo    Repo
	users   users.Repo
	nowFunc func() time.Time
}

type ServiceOption func(*Service)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(repo Repo, userRepo users.Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] blog repo is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewService] user repo is required")
	}

	s := &Service{
		repo:    repo,
		users:   userRepo,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

func (s *Service) CreatePost(ctx context.Context, authorID, title, content string) (*Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[Service.CreatePost] title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[Service.CreatePost] content is required")
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, errors.Wrap(err, "[Service.CreatePost] GetByID")
	}

	now := s.nowFunc()
	post := &Post{
		ID:        uuid.New().String(),
		UserID:    authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, errors.Wrap(err, "[Service.CreatePost] CreatePost")
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.GetPost] GetPost")
	}
	return post, nil
}

func (s *Service) ListPosts(ctx context.Context, limit, offset int) ([]*Post, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.repo.ListPosts(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ListPosts] ListPosts")
	}
	return posts, nil
}

func (s *Service) UpdatePost(ctx context.Context, actorID, postID, title, content string) (*Post, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.UpdatePost] GetPost")
	}
	if post.UserID != actorID {
		return nil, errs.Wrapf(errs.ErrUnauthenticated, "[Service.UpdatePost] post %q is not owned by the caller", postID)
	}

	if strings.TrimSpace(title) != "" {
		post.Title = title
	}
	if strings.TrimSpace(content) != "" {
		post.Content = content
	}
	post.UpdatedAt = s.nowFunc()

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdatePost] UpdatePost")
	}
	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return errors.Wrap(err, "[Service.DeletePost] GetPost")
	}
	if post.UserID != actorID {
		return errs.Wrapf(errs.ErrUnauthenticated, "[Service.DeletePost] post %q is not owned by the caller", postID)
	}

	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return errors.Wrap(err, "[Service.DeletePost] DeletePost")
	}
	return nil
}

func (s *Service) AddComment(ctx context.Context, authorID, postID, reply string) (*Comment, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, errs.Wrapf(errs.ErrInvalidArgument, "[Service.AddComment] reply is required")
	}
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, errors.Wrap(err, "[Service.AddComment] GetPost")
	}

	comment := &Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    authorID,
		Reply:     reply,
		CreatedAt: s.nowFunc(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, errors.Wrap(err, "[Service.AddComment] CreateComment")
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, errors.Wrap(err, "[Service.ListComments] GetPost")
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ListComments] ListComments")
	}
	return comments, nil
}
