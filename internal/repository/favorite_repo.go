package repository

import (
	"Opsboard/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepo interface {
	CreateList(ctx context.Context, list *model.FavoriteList) error
	GetActiveList(ctx context.Context, id uint64) (*model.FavoriteList, error)
	LockActiveList(ctx context.Context, id uint64) (*model.FavoriteList, error)
	GetActiveListsByIDs(ctx context.Context, ids []uint64) ([]*model.FavoriteList, error)
	ListByOwner(ctx context.Context, userID uint64) ([]*model.FavoriteList, error)
	MarkListDeleted(ctx context.Context, id uint64) error

	Membership(ctx context.Context, listID, operationID uint64) ([]model.FavoriteMembership, error)
	MembershipsOfList(ctx context.Context, listID uint64) ([]model.FavoriteMembership, error)
	MembershipsOfOperation(ctx context.Context, operationID uint64) ([]model.FavoriteMembership, error)
	ApplyMembershipChanges(ctx context.Context, added, removed []model.FavoriteMembership) error
}

type FavoriteRepoImpl struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) FavoriteRepo {
	return &FavoriteRepoImpl{db: db}
}

func (s *FavoriteRepoImpl) CreateList(ctx context.Context, list *model.FavoriteList) error {
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("create favorite list: %w", err)
	}
	return nil
}

func (s *FavoriteRepoImpl) GetActiveList(ctx context.Context, id uint64) (*model.FavoriteList, error) {
	return firstOrNil[model.FavoriteList](s.db.WithContext(ctx).Scopes(Active).Where("id = ?", id))
}

func (s *FavoriteRepoImpl) LockActiveList(ctx context.Context, id uint64) (*model.FavoriteList, error) {
	return firstOrNil[model.FavoriteList](s.db.WithContext(ctx).Scopes(Active, forUpdate).Where("id = ?", id))
}

func (s *FavoriteRepoImpl) GetActiveListsByIDs(ctx context.Context, ids []uint64) ([]*model.FavoriteList, error) {
	lists := make([]*model.FavoriteList, 0)
	if len(ids) == 0 {
		return lists, nil
	}
	err := s.db.WithContext(ctx).Scopes(Active).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&lists).Error
	return lists, err
}

func (s *FavoriteRepoImpl) ListByOwner(ctx context.Context, userID uint64) ([]*model.FavoriteList, error) {
	lists := make([]*model.FavoriteList, 0)
	err := s.db.WithContext(ctx).Scopes(Active).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (s *FavoriteRepoImpl) MarkListDeleted(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.FavoriteList{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// Membership 只加载单条边，添加或移除一条收藏时使用
func (s *FavoriteRepoImpl) Membership(ctx context.Context, listID, operationID uint64) ([]model.FavoriteMembership, error) {
	ms := make([]model.FavoriteMembership, 0, 1)
	err := s.db.WithContext(ctx).
		Where("list_id = ? AND operation_id = ?", listID, operationID).
		Find(&ms).Error
	return ms, err
}

func (s *FavoriteRepoImpl) MembershipsOfList(ctx context.Context, listID uint64) ([]model.FavoriteMembership, error) {
	ms := make([]model.FavoriteMembership, 0)
	err := s.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at DESC").
		Find(&ms).Error
	return ms, err
}

func (s *FavoriteRepoImpl) MembershipsOfOperation(ctx context.Context, operationID uint64) ([]model.FavoriteMembership, error) {
	ms := make([]model.FavoriteMembership, 0)
	err := s.db.WithContext(ctx).
		Where("operation_id = ?", operationID).
		Order("list_id ASC").
		Find(&ms).Error
	return ms, err
}

// ApplyMembershipChanges 提交关系集合的净变化，应在事务内调用
func (s *FavoriteRepoImpl) ApplyMembershipChanges(ctx context.Context, added, removed []model.FavoriteMembership) error {
	db := s.db.WithContext(ctx)
	for _, m := range removed {
		err := db.Where("list_id = ? AND operation_id = ?", m.ListID, m.OperationID).
			Delete(&model.FavoriteMembership{}).Error
		if err != nil {
			return fmt.Errorf("delete membership (%d,%d): %w", m.ListID, m.OperationID, err)
		}
	}
	if len(added) > 0 {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&added).Error
		if err != nil {
			return fmt.Errorf("insert memberships: %w", err)
		}
	}
	return nil
}
