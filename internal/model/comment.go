package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID         uuid.UUID   `json:"id"`
	AuthorID   uuid.UUID   `json:"authorId"`
	AuthorName string      `json:"authorName"`
	Text       string      `json:"text"`
	LikerIDs   []uuid.UUID `json:"likerIds"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func NewComment(author Actor, text string, now time.Time) Comment {
	return Comment{
		ID:         uuid.New(),
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		Text:       text,
		LikerIDs:   []uuid.UUID{},
		CreatedAt:  now,
	}
}
