package repository

import (
	"Opsboard/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepo 用户数据由外部系统维护，这里只读
type UserRepo interface {
	GetActiveUser(ctx context.Context, id uint64) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint64) ([]*model.User, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

// GetActiveUser 未注销的用户，封禁状态由调用方判断
func (s *UserRepoImpl) GetActiveUser(ctx context.Context, id uint64) (*model.User, error) {
	return firstOrNil[model.User](s.db.WithContext(ctx).Where("id = ? AND is_delete = ?", id, false))
}

func (s *UserRepoImpl) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_delete = ?", ids, false).
		Find(&users).Error
	return users, err
}
