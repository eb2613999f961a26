package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/model"
	mysqlClient "warbler/internal/platform/mysql"
	rabbitmqClient "warbler/internal/platform/rabbitmq"
	redisClient "warbler/internal/platform/redis"
	"warbler/internal/worker"
)

type App struct {
	Config     *config.Config
	MySQL      *gorm.DB
	Redis      *redis.Client
	MQConn     *amqp.Connection
	FeedCache  *cache.FeedCache
	FeedWorker *worker.FeedInvalidateWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Message{}, &model.Follow{}, &model.Like{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	feedCache := cache.NewFeedCache(
		redisCli,
		time.Duration(cfg.Redis.FeedTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.FeedDirtyTTLSeconds)*time.Second,
	)

	feedWorker := worker.NewFeedInvalidateWorker(mqConn, feedCache, cfg.RabbitMQ.FeedEventQueue)
	if err := feedWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start feed worker failed: %w", err)
	}

	return &App{
		Config:     cfg,
		MySQL:      mysqlDB,
		Redis:      redisCli,
		MQConn:     mqConn,
		FeedCache:  feedCache,
		FeedWorker: feedWorker,
		StartedAt:  time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.FeedWorker != nil {
		a.FeedWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
