package service

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/BloggingApp/post-service/internal/engagement"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/rabbitmq"
	"github.com/google/uuid"
)

const maxCommentLength = 500

type commentService struct {
	*deps
}

func newCommentService(d *deps) Comment {
	return &commentService{
		deps: d,
	}
}

func (s *commentService) Create(ctx context.Context, actor model.Actor, postID uuid.UUID, input dto.CreateCommentRequest) (*dto.CreateCommentResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		observeErr("comment_create", ErrCommentTextRequired)
		return nil, ErrCommentTextRequired
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		observeErr("comment_create", ErrCommentTooLong)
		return nil, ErrCommentTooLong
	}

	comment := model.NewComment(actor, text, s.now())
	post, err := s.mutate(ctx, postID, "add comment to", func(post *model.Post) error {
		post.Comments = append(post.Comments, comment)
		post.UpdatedAt = comment.CreatedAt
		return nil
	})
	if err != nil {
		observeErr("comment_create", err)
		return nil, err
	}

	observe("comment_create", "ok")
	s.publish(rabbitmq.COMMENT_CREATED_KEY, dto.MQCommentCreatedMsg{
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
		CommentID:    comment.ID,
		UserID:       actor.ID,
		CreatedAt:    comment.CreatedAt,
	})

	return &dto.CreateCommentResult{
		Comment:       dto.NewCommentView(comment, &actor),
		CommentsCount: len(post.Comments),
	}, nil
}

func (s *commentService) Delete(ctx context.Context, actor model.Actor, postID uuid.UUID, commentID uuid.UUID) (*dto.DeleteCommentResult, error) {
	post, err := s.mutate(ctx, postID, "delete comment from", func(post *model.Post) error {
		i := post.FindComment(commentID)
		if i < 0 {
			return ErrCommentNotFound
		}
		if !engagement.CanDeleteComment(actor, post, &post.Comments[i]) {
			return ErrCannotDeleteComment
		}

		post.Comments = slices.Delete(post.Comments, i, i+1)
		post.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		observeErr("comment_delete", err)
		return nil, err
	}

	observe("comment_delete", "ok")
	return &dto.DeleteCommentResult{
		CommentsCount: len(post.Comments),
	}, nil
}

func (s *commentService) ToggleLike(ctx context.Context, actor model.Actor, postID uuid.UUID, commentID uuid.UUID) (*dto.CommentLikeResult, error) {
	var (
		liked bool
		likes int
	)
	_, err := s.mutate(ctx, postID, "toggle comment like on", func(post *model.Post) error {
		i := post.FindComment(commentID)
		if i < 0 {
			return ErrCommentNotFound
		}

		comment := &post.Comments[i]
		comment.LikerIDs, liked = engagement.Toggle(comment.LikerIDs, actor.ID)
		likes = len(comment.LikerIDs)
		post.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		observeErr("comment_like", err)
		return nil, err
	}

	observe("comment_like", likeResult(liked))
	return &dto.CommentLikeResult{
		CommentID: commentID,
		Likes:     likes,
		Liked:     liked,
	}, nil
}
