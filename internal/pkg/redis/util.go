package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// TryLock 抢占分布式锁，retryTimes 为 -1 时一直重试
func TryLock(ctx context.Context, rdb *redis.Client, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return false, nil
}

// UnLock 释放锁，只删除自己持有的
func UnLock(ctx context.Context, rdb *redis.Client, key string, value interface{}) error {
	return rdb.Eval(ctx, unlockScript, []string{key}, value).Err()
}

// ReplaceZSet 先写临时 key 再 RENAME，读者不会看到半成品
func ReplaceZSet(ctx context.Context, rdb *redis.Client, key string, members []redis.Z) error {
	if len(members) == 0 {
		return rdb.Del(ctx, key).Err()
	}
	tmpKey := key + ":tmp"
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, tmpKey)
	pipe.ZAdd(ctx, tmpKey, members...)
	pipe.Rename(ctx, tmpKey, key)
	_, err := pipe.Exec(ctx)
	return err
}
