// Package postgres stores posts and comments in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"github.com/blogsmith/blogsmith/blog"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/pkg/errors"
)

var _ blog.Repo = (*Repo)(nil)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreatePost(ctx context.Context, post *blog.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.UserID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[Repo.CreatePost] insert post")
	}
	return nil
}

func (r *Repo) GetPost(ctx context.Context, id string) (*blog.Post, error) {
	post := &blog.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrNotFound, "[Repo.GetPost] id %q", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Repo.GetPost] scan post")
	}
	return post, nil
}

func (r *Repo) ListPosts(ctx context.Context, limit, offset int) ([]*blog.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "[Repo.ListPosts] query posts")
	}
	defer rows.Close()

	var posts []*blog.Post
	for rows.Next() {
		post := &blog.Post{}
		if err := rows.Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "[Repo.ListPosts] scan post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[Repo.ListPosts] rows")
	}
	return posts, nil
}

func (r *Repo) UpdatePost(ctx context.Context, post *blog.Post) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $2, content = $3, updated_at = $4 WHERE id = $1`,
		post.ID, post.Title, post.Content, post.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[Repo.UpdatePost] update post")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[Repo.UpdatePost] rows affected")
	}
	if affected == 0 {
		return errs.Wrapf(errs.ErrNotFound, "[Repo.UpdatePost] id %q", post.ID)
	}
	return nil
}

func (r *Repo) DeletePost(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[Repo.DeletePost] delete post")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[Repo.DeletePost] rows affected")
	}
	if affected == 0 {
		return errs.Wrapf(errs.ErrNotFound, "[Repo.DeletePost] id %q", id)
	}
	return nil
}

func (r *Repo) CreateComment(ctx context.Context, comment *blog.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, reply, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.UserID, comment.Reply, comment.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "[Repo.CreateComment] insert comment")
	}
	return nil
}

func (r *Repo) ListComments(ctx context.Context, postID string) ([]*blog.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, user_id, reply, created_at
		 FROM comments WHERE post_id = $1 ORDER BY created_at`,
		postID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "[Repo.ListComments] query comments")
	}
	defer rows.Close()

	var comments []*blog.Comment
	for rows.Next() {
		comment := &blog.Comment{}
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Reply, &comment.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "[Repo.ListComments] scan comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[Repo.ListComments] rows")
	}
	return comments, nil
}
