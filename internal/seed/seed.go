// Package seed builds demo posts with likes, ratings and comments. It is
// meant for local development only.
package seed

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BloggingApp/post-service/internal/engagement"
	"github.com/BloggingApp/post-service/internal/model"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const maxCommentRunes = 500

type Options struct {
	Users       int
	Posts       int
	MaxComments int
	// MaxDays bounds how far back CreatedAt is spread.
	MaxDays int
}

func DefaultOptions() Options {
	return Options{
		Users:       8,
		Posts:       20,
		MaxComments: 5,
		MaxDays:     30,
	}
}

type Factory struct {
	faker *gofakeit.Faker
	opts  Options
	now   time.Time
}

// NewFactory returns a factory whose output is fully determined by seed.
func NewFactory(seed int64, opts Options, now time.Time) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	return &Factory{
		faker: gofakeit.New(seed),
		opts:  opts,
		now:   now,
	}
}

// Actors returns one admin followed by opts.Users regular users.
func (f *Factory) Actors() []model.Actor {
	actors := make([]model.Actor, 0, f.opts.Users+1)
	actors = append(actors, model.Actor{ID: f.newID(), DisplayName: "admin", Role: model.RoleAdmin})
	for i := 0; i < f.opts.Users; i++ {
		actors = append(actors, model.Actor{
			ID:          f.newID(),
			DisplayName: f.faker.Username(),
			Role:        model.RoleUser,
		})
	}
	return actors
}

func (f *Factory) Posts(actors []model.Actor) []*model.Post {
	posts := make([]*model.Post, 0, f.opts.Posts)
	for i := 0; i < f.opts.Posts; i++ {
		posts = append(posts, f.Post(actors))
	}
	return posts
}

// Post builds one post by a random actor and lets the others engage with it.
func (f *Factory) Post(actors []model.Actor) *model.Post {
	author := actors[f.faker.IntRange(0, len(actors)-1)]
	createdAt := f.now.Add(-time.Duration(f.faker.IntRange(0, f.opts.MaxDays*24*60)) * time.Minute)

	post := model.NewPost(author, f.title(), f.faker.Paragraph(2, 4, 12, "\n\n"), createdAt)
	post.ID = f.newID()

	for _, actor := range actors {
		if f.faker.Bool() {
			post.LikerIDs, _ = engagement.Toggle(post.LikerIDs, actor.ID)
		}
		if f.faker.IntRange(0, 2) == 0 {
			post.Ratings = engagement.Rate(post.Ratings, actor.ID, f.faker.IntRange(engagement.MinRating, engagement.MaxRating))
		}
	}

	comments := 0
	if f.opts.MaxComments > 0 {
		comments = f.faker.IntRange(0, f.opts.MaxComments)
	}
	for i := 0; i < comments; i++ {
		commenter := actors[f.faker.IntRange(0, len(actors)-1)]
		at := createdAt.Add(time.Duration(i+1) * time.Minute)
		comment := model.NewComment(commenter, f.commentText(), at)
		comment.ID = f.newID()
		for _, actor := range actors {
			if f.faker.IntRange(0, 3) == 0 {
				comment.LikerIDs, _ = engagement.Toggle(comment.LikerIDs, actor.ID)
			}
		}
		post.Comments = append(post.Comments, comment)
		post.UpdatedAt = at
	}

	return post
}

func (f *Factory) newID() uuid.UUID {
	return uuid.MustParse(f.faker.UUID())
}

func (f *Factory) title() string {
	return strings.TrimSuffix(f.faker.Sentence(f.faker.IntRange(3, 8)), ".")
}

func (f *Factory) commentText() string {
	text := f.faker.Sentence(f.faker.IntRange(3, 20))
	if utf8.RuneCountInString(text) > maxCommentRunes {
		text = string([]rune(text)[:maxCommentRunes])
	}
	return text
}
