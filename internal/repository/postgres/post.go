package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = "p.id, p.author_id, p.author_name, p.title, p.content, p.engagement, p.created_at, p.updated_at"

// engagementDoc is the JSONB column holding everything embedded in a post.
type engagementDoc struct {
	LikerIDs []uuid.UUID     `json:"likerIds"`
	Ratings  []model.Rating  `json:"ratings"`
	Comments []model.Comment `json:"comments"`
}

type postRepo struct {
	db      Querier
	timeout time.Duration
}

func NewPostRepo(db Querier, timeout time.Duration) repository.Post {
	return &postRepo{
		db:      db,
		timeout: timeout,
	}
}

func (r *postRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc, err := encodeEngagement(post)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		"INSERT INTO posts(id, author_id, author_name, title, content, engagement, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8)",
		post.ID,
		post.AuthorID,
		post.AuthorName,
		post.Title,
		post.Content,
		doc,
		post.CreatedAt,
		post.UpdatedAt,
	)
	return err
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	post, err := scanPost(r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *postRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.Post, error) {
	maxLimit(&limit)

	return r.findMany(
		ctx,
		"SELECT "+postColumns+" FROM posts p ORDER BY p.created_at DESC LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	maxLimit(&limit)

	return r.findMany(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3",
		authorID,
		limit,
		offset,
	)
}

func (r *postRepo) findMany(ctx context.Context, query string, args ...any) ([]*model.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Mutate(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) (*model.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	post, err := lockPost(ctx, tx, id)
	if err != nil {
		rollback(ctx, tx)
		return nil, err
	}

	if err := fn(post); err != nil {
		rollback(ctx, tx)
		return nil, err
	}

	doc, err := encodeEngagement(post)
	if err != nil {
		rollback(ctx, tx)
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		"UPDATE posts SET title = $1, content = $2, engagement = $3, updated_at = $4 WHERE id = $5",
		post.Title,
		post.Content,
		doc,
		post.UpdatedAt,
		post.ID,
	); err != nil {
		rollback(ctx, tx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	post, err := lockPost(ctx, tx, id)
	if err != nil {
		rollback(ctx, tx)
		return err
	}

	if err := fn(post); err != nil {
		rollback(ctx, tx)
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM posts WHERE id = $1", id); err != nil {
		rollback(ctx, tx)
		return err
	}

	return tx.Commit(ctx)
}

func (r *postRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Ping(ctx)
}

// lockPost reads the post row with FOR UPDATE, so other writers of the same
// post wait until tx ends.
func lockPost(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Post, error) {
	post, err := scanPost(tx.QueryRow(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx)
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		post model.Post
		doc  []byte
	)
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.AuthorName,
		&post.Title,
		&post.Content,
		&doc,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var engagement engagementDoc
	if err := json.Unmarshal(doc, &engagement); err != nil {
		return nil, err
	}

	post.LikerIDs = engagement.LikerIDs
	post.Ratings = engagement.Ratings
	post.Comments = engagement.Comments
	post.Normalize()

	return &post, nil
}

func encodeEngagement(post *model.Post) ([]byte, error) {
	post.Normalize()
	return json.Marshal(engagementDoc{
		LikerIDs: post.LikerIDs,
		Ratings:  post.Ratings,
		Comments: post.Comments,
	})
}
