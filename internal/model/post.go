package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is the unit of storage: likes, ratings and comments live inside it
// and are persisted together with it.
type Post struct {
	ID         uuid.UUID   `json:"id"`
	AuthorID   uuid.UUID   `json:"authorId"`
	AuthorName string      `json:"authorName"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	LikerIDs   []uuid.UUID `json:"likerIds"`
	Ratings    []Rating    `json:"ratings"`
	Comments   []Comment   `json:"comments"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type Rating struct {
	UserID uuid.UUID `json:"userId"`
	Value  int       `json:"value"`
}

func NewPost(author Actor, title string, content string, now time.Time) *Post {
	return &Post{
		ID:         uuid.New(),
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		Title:      title,
		Content:    content,
		LikerIDs:   []uuid.UUID{},
		Ratings:    []Rating{},
		Comments:   []Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FindComment returns the index of the comment with the given id, or -1.
func (p *Post) FindComment(id uuid.UUID) int {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return i
		}
	}
	return -1
}

// Normalize replaces nil collections with empty ones. Documents decoded from
// storage or cache go through it so callers never see a nil slice.
func (p *Post) Normalize() {
	if p.LikerIDs == nil {
		p.LikerIDs = []uuid.UUID{}
	}
	if p.Ratings == nil {
		p.Ratings = []Rating{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	for i := range p.Comments {
		if p.Comments[i].LikerIDs == nil {
			p.Comments[i].LikerIDs = []uuid.UUID{}
		}
	}
}

// Clone returns a deep copy of the post.
func (p *Post) Clone() *Post {
	clone := *p
	clone.LikerIDs = append([]uuid.UUID{}, p.LikerIDs...)
	clone.Ratings = append([]Rating{}, p.Ratings...)
	clone.Comments = make([]Comment, len(p.Comments))
	for i, comment := range p.Comments {
		comment.LikerIDs = append([]uuid.UUID{}, comment.LikerIDs...)
		clone.Comments[i] = comment
	}
	return &clone
}
