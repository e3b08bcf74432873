package blog_test

import (
	"context"
	"testing"

	"github.com/blogsmith/blogsmith/blog"
	blogrepofake "github.com/blogsmith/blogsmith/blog/repofake"
	errs "github.com/blogsmith/blogsmith/internal/errors"
	"github.com/blogsmith/blogsmith/users"
	userrepofake "github.com/blogsmith/blogsmith/users/repofake"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	service *blog.Service
	author  *users.User
	other   *users.User
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := userrepofake.NewFakeUserRepo()
	ctx := context.Background()

	author := &users.User{Name: "John Doe", Email: "john.doe@example.com"}
	require.NoError(t, ur.Create(ctx, author))
	other := &users.User{Name: "Jane Doe", Email: "jane.doe@example.com"}
	require.NoError(t, ur.Create(ctx, other))

	service, err := blog.NewService(blogrepofake.NewFakeBlogRepo(), ur)
	require.NoError(t, err)

	return &testFixture{service: service, author: author, other: other}
}

func TestCreateAndGetPost(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	post, err := f.service.CreatePost(ctx, f.author.ID, "First Post", "Hello, world")
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)
	require.Equal(t, f.author.ID, post.UserID)

	fetched, err := f.service.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, post.Title, fetched.Title)
	require.Equal(t, post.Content, fetched.Content)
}

func TestCreatePostValidation(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.service.CreatePost(ctx, f.author.ID, "", "content")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = f.service.CreatePost(ctx, f.author.ID, "title", "  ")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = f.service.CreatePost(ctx, "no-such-user", "title", "content")
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestUpdatePostRequiresOwnership(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	post, err := f.service.CreatePost(ctx, f.author.ID, "First Post", "Hello, world")
	require.NoError(t, err)

	_, err = f.service.UpdatePost(ctx, f.other.ID, post.ID, "Hijacked", "")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	updated, err := f.service.UpdatePost(ctx, f.author.ID, post.ID, "Revised Post", "")
	require.NoError(t, err)
	require.Equal(t, "Revised Post", updated.Title)
	require.Equal(t, "Hello, world", updated.Content)
}

func TestDeletePostRequiresOwnership(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	post, err := f.service.CreatePost(ctx, f.author.ID, "First Post", "Hello, world")
	require.NoError(t, err)

	require.ErrorIs(t, f.service.DeletePost(ctx, f.other.ID, post.ID), errs.ErrUnauthenticated)
	require.NoError(t, f.service.DeletePost(ctx, f.author.ID, post.ID))

	_, err = f.service.GetPost(ctx, post.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListPostsPagination(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.service.CreatePost(ctx, f.author.ID, "Post", "content")
		require.NoError(t, err)
	}

	page, err := f.service.ListPosts(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)

	rest, err := f.service.ListPosts(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
}

func TestComments(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	post, err := f.service.CreatePost(ctx, f.author.ID, "First Post", "Hello, world")
	require.NoError(t, err)

	_, err = f.service.AddComment(ctx, f.other.ID, "no-such-post", "nice")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.service.AddComment(ctx, f.other.ID, post.ID, "")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	comment, err := f.service.AddComment(ctx, f.other.ID, post.ID, "nice post")
	require.NoError(t, err)
	require.Equal(t, post.ID, comment.PostID)

	comments, err := f.service.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "nice post", comments[0].Reply)
}
