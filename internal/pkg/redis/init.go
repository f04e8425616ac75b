package redis

import (
	"Opsboard/internal/api/config"
	"Opsboard/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

var Rdb *redis.Client

// NewOptions 由配置生成客户端参数，超时为 0 时沿用 go-redis 默认值
func NewOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  millis(cfg.DialTimeout),
		ReadTimeout:  millis(cfg.ReadTimeout),
		WriteTimeout: millis(cfg.WriteTimeout),

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
}

// InitRedis 初始化 Redis 客户端，排行榜依赖 EVAL，启动时即检查连通性
func InitRedis(cfg config.RedisConfig) error {
	rdb := redis.NewClient(NewOptions(cfg))
	rdb.AddHook(logger.NewRedisLogger(millis(cfg.SlowThreshold)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return err
	}

	Rdb = rdb
	log.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return nil
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
