package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/post-service/internal/config"
	"github.com/BloggingApp/post-service/internal/handler"
	"github.com/BloggingApp/post-service/internal/rabbitmq"
	"github.com/BloggingApp/post-service/internal/repository"
	"github.com/BloggingApp/post-service/internal/repository/memory"
	"github.com/BloggingApp/post-service/internal/repository/postgres"
	"github.com/BloggingApp/post-service/internal/server"
	"github.com/BloggingApp/post-service/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Panicf("failed to load config: %s", err.Error())
	}

	var closers []io.Closer

	var postRepo repository.Post
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := postgres.DB(ctx, cfg.DB)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres schema: %s", err.Error())
		}
		defer db.Close()
		logger.Info("Successfully connected to PostgreSQL")

		postRepo = postgres.NewPostRepo(db, cfg.StorageTimeout)
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data will not survive a restart")
		postRepo = memory.NewPostRepo()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	closers = append(closers, rdb)
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	var publisher rabbitmq.Publisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.ConnString != "" {
		mq, err := rabbitmq.New(cfg.RabbitMQ.ConnString, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		publisher = mq
		closers = append(closers, mq)
		logger.Info("Successfully connected to RabbitMQ")
	} else {
		logger.Warn("RABBITMQ_CONN_STRING is empty, events will not be published")
	}

	repos := repository.New(postRepo, rdb)
	services := service.New(logger, repos, publisher, cfg.CacheTTL)
	handlers := handler.New(services, logger, cfg.AccessSecret, cfg.ClientOrigin)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           cfg.Port,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Sugar().Infof("Server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Sugar().Errorf("failed to close resource: %s", err.Error())
		}
	}
}
