package dto

import (
	"time"

	"github.com/BloggingApp/post-service/internal/engagement"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/google/uuid"
)

// PostView is a post with its derived engagement summary. Liked and
// UserRating are only set when the request carries an actor. Comments is nil
// in list views and always present, possibly empty, for a single post.
type PostView struct {
	ID            uuid.UUID      `json:"id"`
	AuthorID      uuid.UUID      `json:"authorId"`
	AuthorName    string         `json:"authorName"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Likes         int            `json:"likes"`
	AverageRating float64        `json:"averageRating"`
	RatingsCount  int            `json:"ratingsCount"`
	CommentsCount int            `json:"commentsCount"`
	Comments      *[]CommentView `json:"comments,omitempty"`
	Liked         *bool          `json:"liked,omitempty"`
	UserRating    *int           `json:"userRating,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func NewPostView(post *model.Post, viewer *model.Actor, withComments bool) PostView {
	view := PostView{
		ID:            post.ID,
		AuthorID:      post.AuthorID,
		AuthorName:    post.AuthorName,
		Title:         post.Title,
		Content:       post.Content,
		Likes:         len(post.LikerIDs),
		AverageRating: engagement.Average(post.Ratings),
		RatingsCount:  len(post.Ratings),
		CommentsCount: len(post.Comments),
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}

	if withComments {
		comments := make([]CommentView, 0, len(post.Comments))
		for _, comment := range post.Comments {
			comments = append(comments, NewCommentView(comment, viewer))
		}
		view.Comments = &comments
	}

	if viewer != nil {
		liked := engagement.Contains(post.LikerIDs, viewer.ID)
		view.Liked = &liked
		if value, ok := engagement.UserRating(post.Ratings, viewer.ID); ok {
			view.UserRating = &value
		}
	}

	return view
}

func NewPostViews(posts []*model.Post, viewer *model.Actor) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, NewPostView(post, viewer, false))
	}
	return views
}
