package repository

import (
	"Opsboard/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type OperationRepo interface {
	Create(ctx context.Context, op *model.Operation) error
	GetActive(ctx context.Context, id uint64) (*model.Operation, error)
	GetActiveByIDs(ctx context.Context, ids []uint64) ([]*model.Operation, error)
	LockActive(ctx context.Context, id uint64) (*model.Operation, error)
	SaveCounters(ctx context.Context, op *model.Operation) error
	SoftDelete(ctx context.Context, id uint64) error
	ListHot(ctx context.Context, limit, offset int) ([]*model.Operation, error)
	ListActiveBatch(ctx context.Context, afterID uint64, limit int) ([]*model.Operation, error)
	CountActive(ctx context.Context) (int64, error)
}

type OperationRepoImpl struct {
	db *gorm.DB
}

func NewOperationRepo(db *gorm.DB) OperationRepo {
	return &OperationRepoImpl{db: db}
}

func (s *OperationRepoImpl) Create(ctx context.Context, op *model.Operation) error {
	if err := s.db.WithContext(ctx).Create(op).Error; err != nil {
		return fmt.Errorf("create operation: %w", err)
	}
	return nil
}

func (s *OperationRepoImpl) GetActive(ctx context.Context, id uint64) (*model.Operation, error) {
	return firstOrNil[model.Operation](s.db.WithContext(ctx).Scopes(Active).Where("id = ?", id))
}

// GetActiveByIDs 结果顺序与 ids 一致，已删除或不存在的跳过
func (s *OperationRepoImpl) GetActiveByIDs(ctx context.Context, ids []uint64) ([]*model.Operation, error) {
	if len(ids) == 0 {
		return []*model.Operation{}, nil
	}
	var ops []*model.Operation
	err := s.db.WithContext(ctx).Scopes(Active).Where("id IN ?", ids).Find(&ops).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Operation, len(ops))
	for _, op := range ops {
		byID[op.ID] = op
	}
	ordered := make([]*model.Operation, 0, len(ops))
	for _, id := range ids {
		if op, ok := byID[id]; ok {
			ordered = append(ordered, op)
		}
	}
	return ordered, nil
}

// LockActive SELECT ... FOR UPDATE，必须在事务内调用
func (s *OperationRepoImpl) LockActive(ctx context.Context, id uint64) (*model.Operation, error) {
	return firstOrNil[model.Operation](s.db.WithContext(ctx).Scopes(Active, forUpdate).Where("id = ?", id))
}

// SaveCounters 只写回计数与热度分
func (s *OperationRepoImpl) SaveCounters(ctx context.Context, op *model.Operation) error {
	return s.db.WithContext(ctx).Model(&model.Operation{}).
		Where("id = ?", op.ID).
		Updates(map[string]interface{}{
			"likes":     op.Likes,
			"dislikes":  op.Dislikes,
			"views":     op.Views,
			"hot_score": op.HotScore,
		}).Error
}

func (s *OperationRepoImpl) SoftDelete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Operation{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (s *OperationRepoImpl) ListHot(ctx context.Context, limit, offset int) ([]*model.Operation, error) {
	var ops []*model.Operation
	err := s.db.WithContext(ctx).Scopes(Active).
		Order("hot_score DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&ops).Error
	return ops, err
}

// ListActiveBatch 按主键游标分批扫描，供对账任务使用
func (s *OperationRepoImpl) ListActiveBatch(ctx context.Context, afterID uint64, limit int) ([]*model.Operation, error) {
	var ops []*model.Operation
	err := s.db.WithContext(ctx).Scopes(Active).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&ops).Error
	return ops, err
}

func (s *OperationRepoImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Operation{}).Scopes(Active).Count(&count).Error
	return count, err
}
