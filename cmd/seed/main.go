package main

import (
	"context"
	"flag"
	"time"

	"github.com/BloggingApp/post-service/internal/config"
	"github.com/BloggingApp/post-service/internal/repository/postgres"
	"github.com/BloggingApp/post-service/internal/seed"
	"go.uber.org/zap"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of regular users to generate")
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "number of posts to generate")
	flag.IntVar(&opts.MaxComments, "comments", opts.MaxComments, "maximum comments per post")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Panicf("failed to load config: %s", err.Error())
	}
	if cfg.Storage != config.StoragePostgres {
		logger.Sugar().Panicf("seeding needs postgres storage, got %q", cfg.Storage)
	}

	db, err := postgres.DB(ctx, cfg.DB)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Sugar().Panicf("failed to migrate postgres schema: %s", err.Error())
	}

	repo := postgres.NewPostRepo(db, cfg.StorageTimeout)
	factory := seed.NewFactory(*seedValue, opts, time.Now())

	actors := factory.Actors()
	for _, post := range factory.Posts(actors) {
		if err := repo.Create(ctx, post); err != nil {
			logger.Sugar().Panicf("failed to create post(%s): %s", post.ID.String(), err.Error())
		}
	}

	for _, actor := range actors {
		logger.Sugar().Infof("seeded actor %s (%s, %s)", actor.DisplayName, actor.ID.String(), actor.Role)
	}
	logger.Sugar().Infof("seeded %d posts", opts.Posts)
}
