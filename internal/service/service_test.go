package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/repository"
	"github.com/BloggingApp/post-service/internal/repository/memory"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedMsg struct {
	routingKey string
	msg        interface{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []publishedMsg
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.msgs = append(p.msgs, publishedMsg{routingKey: routingKey, msg: msg})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		keys = append(keys, m.routingKey)
	}
	return keys
}

// brokenRepo fails every storage call.
type brokenRepo struct{}

var errConnRefused = errors.New("connection refused")

func (brokenRepo) Create(context.Context, *model.Post) error { return errConnRefused }
func (brokenRepo) FindByID(context.Context, uuid.UUID) (*model.Post, error) {
	return nil, errConnRefused
}
func (brokenRepo) FindAll(context.Context, int, int) ([]*model.Post, error) {
	return nil, errConnRefused
}
func (brokenRepo) FindAuthorPosts(context.Context, uuid.UUID, int, int) ([]*model.Post, error) {
	return nil, errConnRefused
}
func (brokenRepo) Mutate(context.Context, uuid.UUID, repository.MutateFunc) (*model.Post, error) {
	return nil, errConnRefused
}
func (brokenRepo) Delete(context.Context, uuid.UUID, repository.MutateFunc) error {
	return errConnRefused
}
func (brokenRepo) Ping(context.Context) error { return errConnRefused }

type testEnv struct {
	services  *Service
	repo      *repository.Repository
	mr        *miniredis.Miniredis
	publisher *recordingPublisher
}

func newTestEnvWithRepo(t *testing.T, postRepo repository.Post) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := repository.New(postRepo, rdb)
	publisher := &recordingPublisher{}

	return &testEnv{
		services:  New(zap.NewNop(), repo, publisher, time.Hour),
		repo:      repo,
		mr:        mr,
		publisher: publisher,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithRepo(t, memory.NewPostRepo())
}

func newActor(name string) model.Actor {
	return model.Actor{ID: uuid.New(), DisplayName: name, Role: model.RoleUser}
}

func newAdmin(name string) model.Actor {
	return model.Actor{ID: uuid.New(), DisplayName: name, Role: model.RoleAdmin}
}

func (e *testEnv) createPost(t *testing.T, author model.Actor) *model.Post {
	t.Helper()

	post, err := e.services.Post.Create(context.Background(), author, dto.CreatePostRequest{
		Title:   "A post about Go",
		Content: "Some content that is long enough.",
	})
	require.NoError(t, err)
	return post
}

func (e *testEnv) addComment(t *testing.T, postID uuid.UUID, author model.Actor, text string) model.Comment {
	t.Helper()

	res, err := e.services.Comment.Create(context.Background(), author, postID, dto.CreateCommentRequest{Text: text})
	require.NoError(t, err)
	return res.Comment.Comment
}

func (e *testEnv) stored(t *testing.T, id uuid.UUID) *model.Post {
	t.Helper()

	post, err := e.repo.Post.FindByID(context.Background(), id)
	require.NoError(t, err)
	return post
}

func (e *testEnv) setNow(now time.Time) {
	e.services.Post.(*postService).now = func() time.Time { return now }
}
