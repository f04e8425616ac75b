package service

import (
	"Opsboard/internal/pkg/consts"
	redisUtil "Opsboard/internal/pkg/redis"
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RankEntry 排行榜中的一项
type RankEntry struct {
	OperationID uint64
	HotScore    int64
}

// RankService 热度排行榜，Redis ZSET 只保留前 keySize 名，数据库中的 hot_score 为准
// 榜外作战计划的分数都不高于 floor，因此 ZSET 始终是全局排名的前缀
type RankService interface {
	Sync(ctx context.Context, operationID uint64, hotScore int64) error
	Remove(ctx context.Context, operationID uint64) error
	Top(ctx context.Context, offset, limit int64) ([]uint64, error)
	Size(ctx context.Context) (int64, error)
	Rebuild(ctx context.Context, entries []RankEntry) error
}

// syncScript KEYS[1] 排行榜 KEYS[2] floor，ARGV: member score keySize
// 低于 floor 的分数直接出榜；写入后超出 keySize 的部分裁掉并抬高 floor
var syncScript = redis.NewScript(`
local score = tonumber(ARGV[2])
local floor = redis.call('GET', KEYS[2])
if floor and score < tonumber(floor) then
	return redis.call('ZREM', KEYS[1], ARGV[1])
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
local size = tonumber(ARGV[3])
if size > 0 then
	local over = redis.call('ZCARD', KEYS[1]) - size
	if over > 0 then
		local evicted = redis.call('ZRANGE', KEYS[1], 0, over - 1, 'WITHSCORES')
		redis.call('ZREMRANGEBYRANK', KEYS[1], 0, over - 1)
		local top = tonumber(evicted[#evicted])
		if not floor or top > tonumber(floor) then
			redis.call('SET', KEYS[2], evicted[#evicted])
		end
	end
end
return 0
`)

type rankServiceImpl struct {
	rdb     *redis.Client
	keySize int64
}

func NewRankService(rdb *redis.Client, keySize int64) RankService {
	return &rankServiceImpl{rdb: rdb, keySize: keySize}
}

func (s *rankServiceImpl) Sync(ctx context.Context, operationID uint64, hotScore int64) error {
	return syncScript.Run(ctx, s.rdb,
		[]string{consts.OperationHotRankKey, consts.OperationHotRankFloorKey},
		strconv.FormatUint(operationID, 10), hotScore, s.keySize,
	).Err()
}

func (s *rankServiceImpl) Remove(ctx context.Context, operationID uint64) error {
	return s.rdb.ZRem(ctx, consts.OperationHotRankKey, strconv.FormatUint(operationID, 10)).Err()
}

func (s *rankServiceImpl) Top(ctx context.Context, offset, limit int64) ([]uint64, error) {
	members, err := s.rdb.ZRevRange(ctx, consts.OperationHotRankKey, offset, offset+limit-1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *rankServiceImpl) Size(ctx context.Context) (int64, error) {
	return s.rdb.ZCard(ctx, consts.OperationHotRankKey).Result()
}

// Rebuild 用对账结果整体替换排行榜，entries 无需有序
// 满额时以最后一名的分数作为 floor，调用方可能已丢弃更低的项
func (s *rankServiceImpl) Rebuild(ctx context.Context, entries []RankEntry) error {
	sorted := append([]RankEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].HotScore > sorted[j].HotScore
	})
	full := s.keySize > 0 && int64(len(sorted)) >= s.keySize
	if full {
		sorted = sorted[:s.keySize]
	}

	members := make([]redis.Z, 0, len(sorted))
	for _, e := range sorted {
		members = append(members, redis.Z{
			Score:  float64(e.HotScore),
			Member: strconv.FormatUint(e.OperationID, 10),
		})
	}
	if err := redisUtil.ReplaceZSet(ctx, s.rdb, consts.OperationHotRankKey, members); err != nil {
		return err
	}
	if full {
		return s.rdb.Set(ctx, consts.OperationHotRankFloorKey, sorted[len(sorted)-1].HotScore, 0).Err()
	}
	return s.rdb.Del(ctx, consts.OperationHotRankFloorKey).Err()
}
