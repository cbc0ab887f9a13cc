package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/BloggingApp/post-service/internal/engagement"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/rabbitmq"
	"github.com/BloggingApp/post-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minTitleLength   = 3
	maxTitleLength   = 200
	minContentLength = 10

	cacheLeaseTTL = 10 * time.Second
)

type postService struct {
	*deps
}

func newPostService(d *deps) Post {
	return &postService{
		deps: d,
	}
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < minTitleLength || n > maxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func validateContent(content string) error {
	if utf8.RuneCountInString(content) < minContentLength {
		return ErrContentTooShort
	}
	return nil
}

func (s *postService) Create(ctx context.Context, actor model.Actor, input dto.CreatePostRequest) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	post := model.NewPost(actor, title, content, s.now())
	if err := s.repo.Post.Create(ctx, post); err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", actor.ID.String(), err.Error())
		return nil, ErrUnavailable
	}

	s.publish(rabbitmq.POST_CREATED_KEY, dto.MQPostCreatedMsg{
		PostID:    post.ID,
		UserID:    post.AuthorID,
		PostTitle: post.Title,
		CreatedAt: post.CreatedAt,
	})

	return post, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	cachedPost, err := redisrepo.Get[model.Post](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil {
		cachedPost.Normalize()
		return cachedPost, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%s) from redis: %s", id.String(), err.Error())
	}

	// The lease is taken before loading so a write that commits in between
	// revokes it and the copy loaded here is never cached.
	leaseKey := redisrepo.PostLeaseKey(id)
	token, leaseErr := s.repo.Redis.Default.Lease(ctx, leaseKey, cacheLeaseTTL)
	if leaseErr != nil {
		s.logger.Sugar().Errorf("failed to lease post(%s) cache entry: %s", id.String(), leaseErr.Error())
	}

	post, err := s.repo.Post.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageError(err, "find", id)
	}

	if leaseErr == nil {
		if _, err := s.repo.Redis.Default.SetJSONWithLease(ctx, redisrepo.PostKey(id), leaseKey, token, post, s.cacheTTL); err != nil {
			s.logger.Sugar().Errorf("failed to set post(%s) in redis: %s", id.String(), err.Error())
		}
	}

	return post, nil
}

func (s *postService) FindAll(ctx context.Context, limit int, offset int) ([]*model.Post, error) {
	posts, err := s.repo.Post.FindAll(ctx, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts(limit=%d, offset=%d): %s", limit, offset, err.Error())
		return nil, ErrUnavailable
	}

	return posts, nil
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	posts, err := s.repo.Post.FindAuthorPosts(ctx, authorID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.String(), err.Error())
		return nil, ErrUnavailable
	}

	return posts, nil
}

func (s *postService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, input dto.EditPostRequest) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title != "" {
		if err := validateTitle(title); err != nil {
			return nil, err
		}
	}
	if content != "" {
		if err := validateContent(content); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, "update", func(post *model.Post) error {
		if !engagement.CanUpdatePost(actor, post) {
			return ErrCannotUpdatePost
		}

		if title != "" {
			post.Title = title
		}
		if content != "" {
			post.Content = content
		}
		post.UpdatedAt = s.now()
		return nil
	})
}

func (s *postService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	err := s.repo.Post.Delete(ctx, id, func(post *model.Post) error {
		if !engagement.CanDeletePost(actor, post) {
			return ErrCannotDeletePost
		}
		return nil
	})
	if err != nil {
		return s.storageError(err, "delete", id)
	}

	s.invalidate(ctx, id)
	s.publish(rabbitmq.POST_DELETED_KEY, dto.MQPostDeletedMsg{
		PostID:    id,
		DeletedBy: actor.ID,
		DeletedAt: s.now(),
	})

	return nil
}

func (s *postService) ToggleLike(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PostLikeResult, error) {
	var liked bool
	post, err := s.mutate(ctx, id, "toggle like on", func(post *model.Post) error {
		post.LikerIDs, liked = engagement.Toggle(post.LikerIDs, actor.ID)
		post.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		observeErr("post_like", err)
		return nil, err
	}

	observe("post_like", likeResult(liked))
	return &dto.PostLikeResult{
		Likes: len(post.LikerIDs),
		Liked: liked,
	}, nil
}

func (s *postService) Rate(ctx context.Context, actor model.Actor, id uuid.UUID, value int) (*dto.RatingResult, error) {
	if !engagement.ValidRating(value) {
		observeErr("post_rate", ErrInvalidRating)
		return nil, ErrInvalidRating
	}

	post, err := s.mutate(ctx, id, "rate", func(post *model.Post) error {
		post.Ratings = engagement.Rate(post.Ratings, actor.ID, value)
		post.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		observeErr("post_rate", err)
		return nil, err
	}

	observe("post_rate", "ok")
	return &dto.RatingResult{
		AverageRating: engagement.Average(post.Ratings),
		RatingsCount:  len(post.Ratings),
		UserRating:    value,
	}, nil
}

func (s *postService) Ping(ctx context.Context) error {
	return s.repo.Post.Ping(ctx)
}
