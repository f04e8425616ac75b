package service

import (
	"Opsboard/internal/repository"
	"context"
)

// UserService 用户由账号系统维护，这里只做状态校验
type UserService interface {
	CheckActive(ctx context.Context, userID uint64) error
}

type userServiceImpl struct {
	store repository.Store
}

func NewUserService(store repository.Store) UserService {
	return &userServiceImpl{store: store}
}

// CheckActive 用户存在且未被封禁
func (s *userServiceImpl) CheckActive(ctx context.Context, userID uint64) error {
	user, err := s.store.Users().GetActiveUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsBan {
		return ErrUserInactive
	}
	return nil
}
