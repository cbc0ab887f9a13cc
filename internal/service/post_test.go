package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/rabbitmq"
	"github.com/BloggingApp/post-service/internal/repository"
	"github.com/BloggingApp/post-service/internal/repository/memory"
	"github.com/BloggingApp/post-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostService_Create(t *testing.T) {
	env := newTestEnv(t)
	author := newActor("alice")

	post, err := env.services.Post.Create(context.Background(), author, dto.CreatePostRequest{
		Title:   "  Hello world  ",
		Content: "  This is the body of the post.  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", post.Title)
	assert.Equal(t, "This is the body of the post.", post.Content)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "alice", post.AuthorName)
	assert.NotNil(t, post.LikerIDs)
	assert.NotNil(t, post.Ratings)
	assert.NotNil(t, post.Comments)

	stored := env.stored(t, post.ID)
	assert.Equal(t, post.Title, stored.Title)

	assert.Eventually(t, func() bool {
		keys := env.publisher.keys()
		return len(keys) == 1 && keys[0] == rabbitmq.POST_CREATED_KEY
	}, time.Second, 10*time.Millisecond)
}

func TestPostService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	author := newActor("alice")

	tests := []struct {
		name    string
		input   dto.CreatePostRequest
		wantErr error
	}{
		{"short title", dto.CreatePostRequest{Title: " ab ", Content: "long enough content"}, ErrInvalidTitle},
		{"long title", dto.CreatePostRequest{Title: strings.Repeat("t", 201), Content: "long enough content"}, ErrInvalidTitle},
		{"short content", dto.CreatePostRequest{Title: "Title", Content: "   short   "}, ErrContentTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.services.Post.Create(context.Background(), author, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	posts, err := env.services.Post.FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_FindByIDUsesCache(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))
	ctx := context.Background()

	found, err := env.services.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
	assert.True(t, env.mr.Exists(redisrepo.PostKey(post.ID)))

	// Served from cache even with the row gone from storage.
	require.NoError(t, env.repo.Post.Delete(ctx, post.ID, func(*model.Post) error { return nil }))
	cached, err := env.services.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, cached.Title)
	assert.NotNil(t, cached.Comments)
}

func TestPostService_FindByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.services.Post.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_FindByIDFallsThroughOnBrokenCache(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))

	env.mr.SetError("READONLY")
	found, err := env.services.Post.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
}

func TestPostService_FindAuthorPosts(t *testing.T) {
	env := newTestEnv(t)
	alice := newActor("alice")
	bob := newActor("bob")

	env.createPost(t, alice)
	env.createPost(t, bob)
	env.createPost(t, alice)

	posts, err := env.services.Post.FindAuthorPosts(context.Background(), alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, alice.ID, p.AuthorID)
	}
}

func TestPostService_Update(t *testing.T) {
	env := newTestEnv(t)
	author := newActor("alice")
	post := env.createPost(t, author)
	ctx := context.Background()

	// Warm the cache so the update has something to invalidate.
	_, err := env.services.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)

	updated, err := env.services.Post.Update(ctx, author, post.ID, dto.EditPostRequest{Title: "New title"})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, post.Content, updated.Content)
	assert.False(t, env.mr.Exists(redisrepo.PostKey(post.ID)))

	found, err := env.services.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", found.Title)
}

func TestPostService_UpdateForbidden(t *testing.T) {
	env := newTestEnv(t)
	author := newActor("alice")
	post := env.createPost(t, author)
	ctx := context.Background()

	_, err := env.services.Post.Update(ctx, newActor("mallory"), post.ID, dto.EditPostRequest{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrCannotUpdatePost)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins can delete any post but cannot edit someone else's.
	_, err = env.services.Post.Update(ctx, newAdmin("root"), post.ID, dto.EditPostRequest{Title: "Moderated"})
	assert.ErrorIs(t, err, ErrCannotUpdatePost)

	assert.Equal(t, post.Title, env.stored(t, post.ID).Title)
}

func TestPostService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author", func(t *testing.T) {
		env := newTestEnv(t)
		author := newActor("alice")
		post := env.createPost(t, author)
		env.addComment(t, post.ID, newActor("bob"), "nice")

		require.NoError(t, env.services.Post.Delete(ctx, author, post.ID))

		_, err := env.services.Post.FindByID(ctx, post.ID)
		assert.ErrorIs(t, err, ErrPostNotFound)

		_, err = env.services.Comment.ToggleLike(ctx, author, post.ID, uuid.New())
		assert.ErrorIs(t, err, ErrPostNotFound)

		assert.Eventually(t, func() bool {
			for _, key := range env.publisher.keys() {
				if key == rabbitmq.POST_DELETED_KEY {
					return true
				}
			}
			return false
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("admin", func(t *testing.T) {
		env := newTestEnv(t)
		post := env.createPost(t, newActor("alice"))

		require.NoError(t, env.services.Post.Delete(ctx, newAdmin("root"), post.ID))
		_, err := env.repo.Post.FindByID(ctx, post.ID)
		assert.Error(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		env := newTestEnv(t)
		post := env.createPost(t, newActor("alice"))

		err := env.services.Post.Delete(ctx, newActor("mallory"), post.ID)
		assert.ErrorIs(t, err, ErrCannotDeletePost)
		env.stored(t, post.ID)
	})

	t.Run("missing", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.services.Post.Delete(ctx, newActor("alice"), uuid.New())
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostService_ToggleLike(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))
	bob := newActor("bob")
	carol := newActor("carol")
	ctx := context.Background()

	later := post.UpdatedAt.Add(time.Minute)
	env.setNow(later)

	res, err := env.services.Post.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.PostLikeResult{Likes: 1, Liked: true}, res)

	res, err = env.services.Post.ToggleLike(ctx, carol, post.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.PostLikeResult{Likes: 2, Liked: true}, res)

	res, err = env.services.Post.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.PostLikeResult{Likes: 1, Liked: false}, res)

	stored := env.stored(t, post.ID)
	assert.Equal(t, []uuid.UUID{carol.ID}, stored.LikerIDs)
	assert.True(t, later.Equal(stored.UpdatedAt))
}

func TestPostService_ToggleLikeTwiceRestoresState(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))
	bob := newActor("bob")
	ctx := context.Background()

	_, err := env.services.Post.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	res, err := env.services.Post.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Likes)
	assert.Empty(t, env.stored(t, post.ID).LikerIDs)
}

func TestPostService_ToggleLikeConcurrent(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))
	ctx := context.Background()

	const users = 40
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.services.Post.ToggleLike(ctx, newActor("fan"), post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, env.stored(t, post.ID).LikerIDs, users)
}

func TestPostService_ToggleLikeMissingPost(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.services.Post.ToggleLike(context.Background(), newActor("bob"), uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Rate(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))
	ctx := context.Background()

	u1, u2, u3 := newActor("u1"), newActor("u2"), newActor("u3")

	_, err := env.services.Post.Rate(ctx, u1, post.ID, 3)
	require.NoError(t, err)
	_, err = env.services.Post.Rate(ctx, u2, post.ID, 4)
	require.NoError(t, err)
	res, err := env.services.Post.Rate(ctx, u3, post.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, &dto.RatingResult{AverageRating: 4, RatingsCount: 3, UserRating: 5}, res)

	// Re-rating overwrites instead of adding a second entry.
	res, err = env.services.Post.Rate(ctx, u1, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, &dto.RatingResult{AverageRating: 3.33, RatingsCount: 3, UserRating: 1}, res)

	stored := env.stored(t, post.ID)
	require.Len(t, stored.Ratings, 3)
	assert.Equal(t, u1.ID, stored.Ratings[0].UserID)
	assert.Equal(t, 1, stored.Ratings[0].Value)
}

func TestPostService_RateRejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, newActor("alice"))
	ctx := context.Background()

	for _, value := range []int{0, 6, -1} {
		_, err := env.services.Post.Rate(ctx, newActor("bob"), post.ID, value)
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, env.stored(t, post.ID).Ratings)

	// Validation runs before the post is looked up.
	_, err := env.services.Post.Rate(ctx, newActor("bob"), uuid.New(), 6)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestPostService_StorageUnavailable(t *testing.T) {
	env := newTestEnvWithRepo(t, brokenRepo{})
	actor := newActor("alice")
	ctx := context.Background()

	_, err := env.services.Post.Create(ctx, actor, dto.CreatePostRequest{Title: "Title", Content: "long enough content"})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = env.services.Post.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = env.services.Post.FindAll(ctx, 10, 0)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = env.services.Post.ToggleLike(ctx, actor, uuid.New())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = env.services.Post.Rate(ctx, actor, uuid.New(), 4)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = env.services.Post.Delete(ctx, actor, uuid.New())
	assert.ErrorIs(t, err, ErrUnavailable)
}

// pausingRepo holds FindByID between loading the post and returning it.
type pausingRepo struct {
	repository.Post
	loaded  chan struct{}
	release chan struct{}
}

func (r *pausingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := r.Post.FindByID(ctx, id)
	close(r.loaded)
	<-r.release
	return post, err
}

func TestPostService_FindByIDDoesNotCacheCopyOlderThanWrite(t *testing.T) {
	inner := memory.NewPostRepo()
	env := newTestEnvWithRepo(t, inner)
	post := env.createPost(t, newActor("alice"))
	ctx := context.Background()

	paused := &pausingRepo{
		Post:    inner,
		loaded:  make(chan struct{}),
		release: make(chan struct{}),
	}
	// The reader shares storage and redis with the writer.
	readerRepo := &repository.Repository{Post: paused, Redis: env.repo.Redis}
	readerServices := New(zap.NewNop(), readerRepo, env.publisher, time.Hour)

	done := make(chan *model.Post)
	go func() {
		found, err := readerServices.Post.FindByID(ctx, post.ID)
		assert.NoError(t, err)
		done <- found
	}()

	<-paused.loaded
	res, err := env.services.Post.ToggleLike(ctx, newActor("bob"), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Likes)
	close(paused.release)

	stale := <-done
	assert.Empty(t, stale.LikerIDs)

	_, err = redisrepo.Get[model.Post](env.repo.Redis.Default, ctx, redisrepo.PostKey(post.ID))
	assert.ErrorIs(t, err, redis.Nil)

	found, err := env.services.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, found.LikerIDs, 1)
}
