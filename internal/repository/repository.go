package repository

import (
	"context"
	"errors"

	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrPostNotFound = errors.New("post not found")

// MutateFunc edits a post in place. Returning an error discards every change.
type MutateFunc func(post *model.Post) error

type Post interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.Post, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error)
	// Mutate loads the post, applies fn and stores the result as one atomic
	// step. Concurrent calls for the same post are serialized.
	Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (*model.Post, error)
	// Delete removes the post, with everything embedded in it, if fn accepts it.
	Delete(ctx context.Context, id uuid.UUID, fn MutateFunc) error
	Ping(ctx context.Context) error
}

type Repository struct {
	Post  Post
	Redis *redisrepo.RedisRepository
}

func New(post Post, rdb *redis.Client) *Repository {
	return &Repository{
		Post:  post,
		Redis: redisrepo.New(rdb),
	}
}
