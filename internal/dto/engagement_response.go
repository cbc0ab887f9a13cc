package dto

import (
	"github.com/BloggingApp/post-service/internal/engagement"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/google/uuid"
)

type PostLikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

type RatingResult struct {
	AverageRating float64 `json:"averageRating"`
	RatingsCount  int     `json:"ratingsCount"`
	UserRating    int     `json:"userRating"`
}

type CreateCommentResult struct {
	Comment       CommentView `json:"comment"`
	CommentsCount int         `json:"commentsCount"`
}

type CommentLikeResult struct {
	CommentID uuid.UUID `json:"commentId"`
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
}

type DeleteCommentResult struct {
	CommentsCount int `json:"commentsCount"`
}

type CommentView struct {
	model.Comment
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

func NewCommentView(comment model.Comment, viewer *model.Actor) CommentView {
	view := CommentView{
		Comment: comment,
		Likes:   len(comment.LikerIDs),
	}
	if viewer != nil {
		view.Liked = engagement.Contains(comment.LikerIDs, viewer.ID)
	}
	return view
}
