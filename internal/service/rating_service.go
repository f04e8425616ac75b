package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/idcodec"
	"Opsboard/internal/repository"
	"context"
	"errors"
	log "log/slog"
)

// 首次评价并发插入触发唯一索引冲突时的重试次数
const rateRetryTimes = 2

type RatingService interface {
	RateOperation(ctx context.Context, userID uint64, publicID string, ratingType int8) (*dto.RatingStateDTO, error)
	GetRatingState(ctx context.Context, userID uint64, publicID string) (*dto.RatingStateDTO, error)
}

type ratingServiceImpl struct {
	store repository.Store
	codec *idcodec.Codec
	calc  *engine.HotScoreCalculator
	rank  RankService
}

func NewRatingService(store repository.Store, codec *idcodec.Codec, calc *engine.HotScoreCalculator, rank RankService) RatingService {
	return &ratingServiceImpl{
		store: store,
		codec: codec,
		calc:  calc,
		rank:  rank,
	}
}

// RateOperation 好评/差评，重复提交同一类型为取消。
// 作战计划行锁保证同一计划上的评价串行执行。
func (s *ratingServiceImpl) RateOperation(ctx context.Context, userID uint64, publicID string, ratingType int8) (*dto.RatingStateDTO, error) {
	requested := model.RatingType(ratingType)
	if !engine.IsRequestable(requested) {
		return nil, ErrRatingTypeInvalid
	}
	id, ok := s.codec.DecodeUint64(publicID)
	if !ok {
		return nil, ErrOperationNotFound
	}

	user, err := s.store.Users().GetActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var (
		op     *model.Operation
		rating *model.Rating
	)
	for i := 0; i < rateRetryTimes; i++ {
		err = s.store.Transaction(ctx, func(tx repository.Store) error {
			var err error
			op, err = tx.Operations().LockActive(ctx, id)
			if err != nil {
				return err
			}
			if op == nil {
				return ErrOperationNotFound
			}

			existing, err := tx.Ratings().Get(ctx, op.ID, userID)
			if err != nil {
				return err
			}
			rating = engine.ApplyRating(op, existing, userID, requested)
			s.calc.Refresh(op)

			if err = tx.Ratings().Save(ctx, rating); err != nil {
				return err
			}
			return tx.Operations().SaveCounters(ctx, op)
		})
		if !errors.Is(err, repository.ErrDuplicateKey) {
			break
		}
		log.WarnContext(ctx, "concurrent first rating, retrying", "operationID", id, "userID", userID)
	}
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}

	if err = s.rank.Sync(ctx, op.ID, op.HotScore); err != nil {
		log.WarnContext(ctx, "sync operation rank failed", "operationID", op.ID, "err", err)
	}

	return s.toState(op, rating.Type), nil
}

func (s *ratingServiceImpl) GetRatingState(ctx context.Context, userID uint64, publicID string) (*dto.RatingStateDTO, error) {
	id, ok := s.codec.DecodeUint64(publicID)
	if !ok {
		return nil, ErrOperationNotFound
	}
	op, err := s.store.Operations().GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperationNotFound
	}

	current := model.RatingNone
	rating, err := s.store.Ratings().Get(ctx, op.ID, userID)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		current = rating.Type
	}
	return s.toState(op, current), nil
}

func (s *ratingServiceImpl) toState(op *model.Operation, current model.RatingType) *dto.RatingStateDTO {
	return &dto.RatingStateDTO{
		OperationID: s.codec.EncodeUint64(op.ID),
		RatingType:  int8(current),
		Likes:       op.Likes,
		Dislikes:    op.Dislikes,
		HotScore:    op.HotScore,
		RatingRatio: engine.CalculateRatingRatio(op.Likes, op.Dislikes),
	}
}
