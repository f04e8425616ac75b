package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/es"
	"Opsboard/internal/pkg/idcodec"
	"Opsboard/internal/repository"
	"context"
	log "log/slog"
)

type OperationService interface {
	CreateOperation(ctx context.Context, userID uint64, req *dto.CreateOperationDTO) (*dto.OperationDTO, error)
	GetOperation(ctx context.Context, viewerID uint64, publicID string) (*dto.OperationDetailDTO, error)
	DeleteOperation(ctx context.Context, userID uint64, roles []string, publicID string) error
	ListHotOperations(ctx context.Context, page, pageSize int) (*dto.PageDTO[*dto.OperationDTO], error)
	SearchOperations(ctx context.Context, req *dto.SearchOperationDTO) (*dto.PageDTO[*dto.OperationDTO], error)
	ReconcileBatch(ctx context.Context, afterID uint64, limit int) (*ReconcileResult, error)
}

// ReconcileResult 一批对账的结果，LastID 为 0 表示已扫描完毕
type ReconcileResult struct {
	LastID  uint64
	Fixed   int
	Entries []RankEntry
}

type operationServiceImpl struct {
	store  repository.Store
	codec  *idcodec.Codec
	calc   *engine.HotScoreCalculator
	rank   RankService
	search es.OperationRepo
}

func NewOperationService(
	store repository.Store,
	codec *idcodec.Codec,
	calc *engine.HotScoreCalculator,
	rank RankService,
	search es.OperationRepo,
) OperationService {
	return &operationServiceImpl{
		store:  store,
		codec:  codec,
		calc:   calc,
		rank:   rank,
		search: search,
	}
}

func (s *operationServiceImpl) CreateOperation(ctx context.Context, userID uint64, req *dto.CreateOperationDTO) (*dto.OperationDTO, error) {
	if req == nil || req.Title == "" {
		return nil, ErrParamInvalid
	}
	user, err := s.store.Users().GetActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	op := &model.Operation{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Map:         req.Map,
	}
	s.calc.Refresh(op)

	if err = s.store.Operations().Create(ctx, op); err != nil {
		return nil, err
	}
	s.syncRank(ctx, op)

	return toOperationDTO(s.codec, op), nil
}

// GetOperation 读取详情并记一次浏览，计数与热度分在同一事务内写回
func (s *operationServiceImpl) GetOperation(ctx context.Context, viewerID uint64, publicID string) (*dto.OperationDetailDTO, error) {
	id, ok := s.codec.DecodeUint64(publicID)
	if !ok {
		return nil, ErrOperationNotFound
	}

	var op *model.Operation
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		op, err = tx.Operations().LockActive(ctx, id)
		if err != nil {
			return err
		}
		if op == nil {
			return ErrOperationNotFound
		}
		engine.AddViewCount(op)
		s.calc.Refresh(op)
		return tx.Operations().SaveCounters(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	s.syncRank(ctx, op)

	detail := &dto.OperationDetailDTO{OperationDTO: *toOperationDTO(s.codec, op)}
	if viewerID > 0 {
		rating, err := s.store.Ratings().Get(ctx, op.ID, viewerID)
		if err != nil {
			log.WarnContext(ctx, "get viewer rating failed", "operationID", op.ID, "err", err)
		} else if rating != nil {
			detail.MyRating = int8(rating.Type)
		}
	}
	return detail, nil
}

// DeleteOperation 软删除并从所有收藏夹中移除，作者或管理员可操作
func (s *operationServiceImpl) DeleteOperation(ctx context.Context, userID uint64, roles []string, publicID string) error {
	id, ok := s.codec.DecodeUint64(publicID)
	if !ok {
		return ErrOperationNotFound
	}

	detached := 0
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		op, err := tx.Operations().LockActive(ctx, id)
		if err != nil {
			return err
		}
		if op == nil {
			return ErrOperationNotFound
		}
		if op.UserID != userID && !isAdmin(roles) {
			return UnauthorizedError
		}

		loaded, err := tx.Favorites().MembershipsOfOperation(ctx, op.ID)
		if err != nil {
			return err
		}
		rel := engine.NewMemberships(loaded)
		detached = engine.DetachOperation(rel, op)
		added, removed := rel.Changes()
		if err = tx.Favorites().ApplyMembershipChanges(ctx, added, removed); err != nil {
			return err
		}
		return tx.Operations().SoftDelete(ctx, op.ID)
	})
	if err != nil {
		return err
	}

	if err = s.rank.Remove(ctx, id); err != nil {
		log.WarnContext(ctx, "remove operation from rank failed", "operationID", id, "err", err)
	}
	log.InfoContext(ctx, "operation deleted", "operationID", id, "detached", detached)
	return nil
}

// ListHotOperations 排行榜覆盖的范围走 Redis，超出范围或 Redis 不可用时回源数据库
func (s *operationServiceImpl) ListHotOperations(ctx context.Context, page, pageSize int) (*dto.PageDTO[*dto.OperationDTO], error) {
	offset, limit := normalizePage(page, pageSize)

	total, err := s.store.Operations().CountActive(ctx)
	if err != nil {
		return nil, err
	}

	ops, ok := s.hotFromRank(ctx, offset, limit)
	if !ok {
		ops, err = s.store.Operations().ListHot(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
	}

	return &dto.PageDTO[*dto.OperationDTO]{
		List:     toOperationDTOs(s.codec, ops),
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}

func (s *operationServiceImpl) hotFromRank(ctx context.Context, offset, limit int) ([]*model.Operation, bool) {
	size, err := s.rank.Size(ctx)
	if err != nil {
		log.WarnContext(ctx, "get rank size failed", "err", err)
		return nil, false
	}
	if size == 0 || int64(offset+limit) > size {
		return nil, false
	}

	ids, err := s.rank.Top(ctx, int64(offset), int64(limit))
	if err != nil {
		log.WarnContext(ctx, "get rank top failed", "err", err)
		return nil, false
	}
	ops, err := s.store.Operations().GetActiveByIDs(ctx, ids)
	if err != nil || len(ops) != len(ids) {
		// 排行榜中有已删除的条目，等对账任务重建
		return nil, false
	}
	return ops, true
}

func (s *operationServiceImpl) SearchOperations(ctx context.Context, req *dto.SearchOperationDTO) (*dto.PageDTO[*dto.OperationDTO], error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	offset, limit := normalizePage(req.Page, req.PageSize)

	docs, total, err := s.search.SearchOperations(ctx, req.Keyword, req.Map, offset, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.OperationDTO, 0, len(docs))
	for _, doc := range docs {
		list = append(list, &dto.OperationDTO{
			ID:          s.codec.EncodeUint64(doc.ID),
			AuthorID:    doc.UserID,
			Title:       doc.Title,
			Description: doc.Description,
			Map:         doc.Map,
			Likes:       doc.Likes,
			Dislikes:    doc.Dislikes,
			Views:       doc.Views,
			HotScore:    doc.HotScore,
			RatingRatio: engine.CalculateRatingRatio(doc.Likes, doc.Dislikes),
			CreatedAt:   doc.CreatedAt,
		})
	}

	return &dto.PageDTO[*dto.OperationDTO]{
		List:     list,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}

// ReconcileBatch 以评价记录为准修正计数，并按当前配置重算热度分
func (s *operationServiceImpl) ReconcileBatch(ctx context.Context, afterID uint64, limit int) (*ReconcileResult, error) {
	ops, err := s.store.Operations().ListActiveBatch(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{Entries: make([]RankEntry, 0, len(ops))}
	for _, candidate := range ops {
		var found, fixed bool
		var score int64
		err = s.store.Transaction(ctx, func(tx repository.Store) error {
			op, err := tx.Operations().LockActive(ctx, candidate.ID)
			if err != nil || op == nil {
				return err
			}
			found = true
			counts, err := tx.Ratings().CountByType(ctx, op.ID)
			if err != nil {
				return err
			}
			before := *op
			op.Likes, op.Dislikes = counts.Likes, counts.Dislikes
			score = s.calc.Refresh(op)
			if before.Likes == op.Likes && before.Dislikes == op.Dislikes && before.HotScore == op.HotScore {
				return nil
			}
			fixed = true
			return tx.Operations().SaveCounters(ctx, op)
		})
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		if fixed {
			result.Fixed++
			log.InfoContext(ctx, "operation counters reconciled", "operationID", candidate.ID, "hotScore", score)
		}
		result.Entries = append(result.Entries, RankEntry{OperationID: candidate.ID, HotScore: score})
	}

	if len(ops) == limit {
		result.LastID = ops[len(ops)-1].ID
	}
	return result, nil
}

func (s *operationServiceImpl) syncRank(ctx context.Context, op *model.Operation) {
	if err := s.rank.Sync(ctx, op.ID, op.HotScore); err != nil {
		log.WarnContext(ctx, "sync operation rank failed", "operationID", op.ID, "err", err)
	}
}
