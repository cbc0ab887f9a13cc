package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQPostCreatedMsg struct {
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	PostTitle string    `json:"post_title"`
	CreatedAt time.Time `json:"created_at"`
}

type MQPostDeletedMsg struct {
	PostID    uuid.UUID `json:"post_id"`
	DeletedBy uuid.UUID `json:"deleted_by"`
	DeletedAt time.Time `json:"deleted_at"`
}

type MQCommentCreatedMsg struct {
	PostID       uuid.UUID `json:"post_id"`
	PostAuthorID uuid.UUID `json:"post_author_id"`
	CommentID    uuid.UUID `json:"comment_id"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
