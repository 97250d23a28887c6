package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/repositories/mock"
	"github.com/dkoval/postium/internal/pkg/apperrors"
)

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches the comment to the resolved post", func(t *testing.T) {
		repos := mock.NewRepos()
		postSvc := newPostServiceForTest(repos, 10)
		svc := NewCommentService(repos.Comments, repos.Posts, repos.Users, zerolog.Nop())

		author := createUser(t, repos, "leo")
		commenter := createUser(t, repos, "fyodor")
		post, err := postSvc.CreatePost(ctx, author.ID, &forms.PostForm{Text: "discuss"}, nil)
		require.NoError(t, err)

		comment, err := svc.AddComment(ctx, "leo", post.ID, commenter.ID, &forms.CommentForm{Text: "well said"})
		require.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, commenter.ID, comment.AuthorID)
		assert.False(t, comment.Created.IsZero())

		comments, err := repos.Comments.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		require.NotNil(t, comments[0].Author)
		assert.Equal(t, "fyodor", comments[0].Author.Username)
	})

	t.Run("commenting on a missing post is a not found", func(t *testing.T) {
		repos := mock.NewRepos()
		svc := NewCommentService(repos.Comments, repos.Posts, repos.Users, zerolog.Nop())

		createUser(t, repos, "leo")
		commenter := createUser(t, repos, "fyodor")

		_, err := svc.AddComment(ctx, "leo", 42, commenter.ID, &forms.CommentForm{Text: "where"})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("post under the wrong author is a not found", func(t *testing.T) {
		repos := mock.NewRepos()
		postSvc := newPostServiceForTest(repos, 10)
		svc := NewCommentService(repos.Comments, repos.Posts, repos.Users, zerolog.Nop())

		author := createUser(t, repos, "leo")
		other := createUser(t, repos, "fyodor")
		post, err := postSvc.CreatePost(ctx, author.ID, &forms.PostForm{Text: "mine"}, nil)
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, "fyodor", post.ID, other.ID, &forms.CommentForm{Text: "hello"})
		assert.True(t, apperrors.IsNotFound(err))
	})
}
