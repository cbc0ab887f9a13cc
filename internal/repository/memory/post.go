// Package memory is an in-process post store used for local development and
// tests. It gives the same per-post atomicity as the postgres driver.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/repository"
	"github.com/google/uuid"
)

const (
	maxLimit     = 50
	defaultLimit = 10
)

type postRepo struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*model.Post
	locks map[uuid.UUID]*sync.Mutex
}

func NewPostRepo() repository.Post {
	return &postRepo{
		posts: make(map[uuid.UUID]*model.Post),
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := post.Clone()
	stored.Normalize()
	r.posts[post.ID] = stored
	r.locks[post.ID] = &sync.Mutex{}
	return nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return post.Clone(), nil
}

func (r *postRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.Post, error) {
	return r.find(ctx, limit, offset, func(*model.Post) bool { return true })
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	return r.find(ctx, limit, offset, func(post *model.Post) bool { return post.AuthorID == authorID })
}

func (r *postRepo) find(ctx context.Context, limit int, offset int, match func(*model.Post) bool) ([]*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	matched := make([]*model.Post, 0, len(r.posts))
	for _, post := range r.posts {
		if match(post) {
			matched = append(matched, post.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*model.Post{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// lock takes the per-post mutex and returns it with a working copy of the post.
func (r *postRepo) lock(id uuid.UUID) (*sync.Mutex, *model.Post, error) {
	r.mu.RLock()
	postLock, ok := r.locks[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, repository.ErrPostNotFound
	}

	postLock.Lock()

	r.mu.RLock()
	post, ok := r.posts[id]
	r.mu.RUnlock()
	if !ok {
		postLock.Unlock()
		return nil, nil, repository.ErrPostNotFound
	}

	return postLock, post.Clone(), nil
}

func (r *postRepo) Mutate(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	postLock, working, err := r.lock(id)
	if err != nil {
		return nil, err
	}
	defer postLock.Unlock()

	if err := fn(working); err != nil {
		return nil, err
	}
	working.Normalize()

	r.mu.Lock()
	r.posts[id] = working.Clone()
	r.mu.Unlock()

	return working, nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	postLock, working, err := r.lock(id)
	if err != nil {
		return err
	}
	defer postLock.Unlock()

	if err := fn(working); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.posts, id)
	delete(r.locks, id)
	r.mu.Unlock()

	return nil
}

func (r *postRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}
