package job

import (
	"Opsboard/internal/pkg/consts"
	"Opsboard/internal/pkg/logger"
	"Opsboard/internal/pkg/redis"
	"Opsboard/internal/service"
	"context"
	log "log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
)

const (
	reconcileBatchSize = 200
	reconcileLockTTL   = 30 * time.Minute
)

// RankReconcileJob 以评价记录为准修正计数、重算热度分并重建排行榜。
// 多实例部署时通过 Redis 锁保证同一时间只有一个实例在跑。
type RankReconcileJob struct {
	operationSvc service.OperationService
	rankSvc      service.RankService
	rdb          *goRedis.Client
	keySize      int64
}

func NewRankReconcileJob(operationSvc service.OperationService, rankSvc service.RankService, rdb *goRedis.Client, keySize int64) *RankReconcileJob {
	return &RankReconcileJob{
		operationSvc: operationSvc,
		rankSvc:      rankSvc,
		rdb:          rdb,
		keySize:      keySize,
	}
}

func (s *RankReconcileJob) Run() {
	traceID := "job-rank-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	if s.rdb != nil {
		locked, err := redis.TryLock(ctx, s.rdb, consts.RankReconcileLock, traceID, reconcileLockTTL, 1)
		if err != nil {
			log.ErrorContext(ctx, "acquire reconcile lock error", "err", err)
			return
		}
		if !locked {
			log.InfoContext(ctx, "reconcile is running on another instance")
			return
		}
		defer func() {
			if err := redis.UnLock(ctx, s.rdb, consts.RankReconcileLock, traceID); err != nil {
				log.WarnContext(ctx, "release reconcile lock error", "err", err)
			}
		}()
	}

	if err := s.reconcile(ctx); err != nil {
		log.ErrorContext(ctx, "rank reconcile failed", "err", err)
	}
}

func (s *RankReconcileJob) reconcile(ctx context.Context) error {
	start := time.Now()
	var (
		afterID uint64
		fixed   int
		scanned int
		top     []service.RankEntry
	)

	for {
		result, err := s.operationSvc.ReconcileBatch(ctx, afterID, reconcileBatchSize)
		if err != nil {
			return err
		}
		fixed += result.Fixed
		scanned += len(result.Entries)
		top = keepTop(append(top, result.Entries...), s.keySize)

		if result.LastID == 0 {
			break
		}
		afterID = result.LastID
	}

	if err := s.rankSvc.Rebuild(ctx, top); err != nil {
		return err
	}

	log.InfoContext(ctx, "rank reconcile finished",
		"scanned", scanned,
		"fixed", fixed,
		"ranked", len(top),
		"latency", time.Since(start),
	)
	return nil
}

// keepTop 按热度分降序保留前 n 项，n <= 0 时全部保留
func keepTop(entries []service.RankEntry, n int64) []service.RankEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].HotScore != entries[j].HotScore {
			return entries[i].HotScore > entries[j].HotScore
		}
		return entries[i].OperationID > entries[j].OperationID
	})
	if n > 0 && int64(len(entries)) > n {
		return entries[:n]
	}
	return entries
}
