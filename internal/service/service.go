package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/BloggingApp/post-service/internal/metrics"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/rabbitmq"
	"github.com/BloggingApp/post-service/internal/repository"
	"github.com/BloggingApp/post-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type Post interface {
	Create(ctx context.Context, actor model.Actor, input dto.CreatePostRequest) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.Post, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error)
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, input dto.EditPostRequest) (*model.Post, error)
	Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error
	ToggleLike(ctx context.Context, actor model.Actor, id uuid.UUID) (*dto.PostLikeResult, error)
	Rate(ctx context.Context, actor model.Actor, id uuid.UUID, value int) (*dto.RatingResult, error)
	Ping(ctx context.Context) error
}

type Comment interface {
	Create(ctx context.Context, actor model.Actor, postID uuid.UUID, input dto.CreateCommentRequest) (*dto.CreateCommentResult, error)
	Delete(ctx context.Context, actor model.Actor, postID uuid.UUID, commentID uuid.UUID) (*dto.DeleteCommentResult, error)
	ToggleLike(ctx context.Context, actor model.Actor, postID uuid.UUID, commentID uuid.UUID) (*dto.CommentLikeResult, error)
}

type Service struct {
	Post    Post
	Comment Comment
}

func New(logger *zap.Logger, repo *repository.Repository, publisher rabbitmq.Publisher, cacheTTL time.Duration) *Service {
	d := &deps{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}

	return &Service{
		Post:    newPostService(d),
		Comment: newCommentService(d),
	}
}

// deps is shared by the post and comment services.
type deps struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher rabbitmq.Publisher
	cacheTTL  time.Duration
	now       func() time.Time
}

// mutate runs fn against the stored post and drops the cached copy on
// success. Errors from fn are returned as they are; storage errors become
// ErrPostNotFound or ErrUnavailable.
func (d *deps) mutate(ctx context.Context, postID uuid.UUID, action string, fn repository.MutateFunc) (*model.Post, error) {
	post, err := d.repo.Post.Mutate(ctx, postID, fn)
	if err != nil {
		return nil, d.storageError(err, action, postID)
	}

	d.invalidate(ctx, postID)
	return post, nil
}

func (d *deps) storageError(err error, action string, postID uuid.UUID) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}

	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return err
	}

	d.logger.Sugar().Errorf("failed to %s post(%s): %s", action, postID.String(), err.Error())
	return ErrUnavailable
}

// invalidate drops the cached post and revokes any lease a concurrent reader
// holds on it.
func (d *deps) invalidate(ctx context.Context, postID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)
	if err := d.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID), redisrepo.PostLeaseKey(postID)).Err(); err != nil {
		d.logger.Sugar().Errorf("failed to delete post(%s) from redis: %s", postID.String(), err.Error())
	}
}

// publish sends msg in the background. The outcome never reaches the caller.
func (d *deps) publish(routingKey string, msg interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := d.publisher.Publish(ctx, routingKey, msg); err != nil {
			d.logger.Sugar().Errorf("failed to publish %s event: %s", routingKey, err.Error())
		}
	}()
}

func observe(op string, result string) {
	metrics.EngagementOps.WithLabelValues(op, result).Inc()
}

func observeErr(op string, err error) {
	observe(op, errorClass(err))
}

func likeResult(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}
