package mongo

import (
	"Opsboard/internal/api/config"
	"Opsboard/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	appName                  = "opsboard"
	defaultConnectTimeout    = 10 * time.Second
	defaultSelectionTimeout  = 5 * time.Second
	defaultSysBoxMaxPoolSize = 50
)

// clientOptions 系统通知只有 Kafka 消费者与通知接口在用，连接池不必很大
func clientOptions(cfg config.MongoConfig) *options.ClientOptions {
	maxPool := cfg.MaxPoolSize
	if maxPool == 0 {
		maxPool = defaultSysBoxMaxPoolSize
	}
	return options.Client().
		ApplyURI(cfg.URL).
		SetAppName(appName).
		SetMaxPoolSize(maxPool).
		SetMinPoolSize(min(cfg.MinPoolSize, maxPool)).
		SetConnectTimeout(seconds(cfg.ConnectTimeout, defaultConnectTimeout)).
		SetServerSelectionTimeout(seconds(cfg.ServerSelectionTimeout, defaultSelectionTimeout)).
		SetMonitor(logger.NewMongoMonitor())
}

// InitMongo 建立连接并返回 Database 引用，同时初始化系统通知索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	opts := clientOptions(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), *opts.ConnectTimeout+*opts.ServerSelectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(cfg.Database)
	if err = ensureSysBoxIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database, "max_pool", *opts.MaxPoolSize)
	return db, nil
}

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
