package repository

import (
	"Opsboard/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// RatingCounts 某个作战计划按评价类型聚合的数量
type RatingCounts struct {
	Likes    uint64
	Dislikes uint64
}

type RatingRepo interface {
	Get(ctx context.Context, operationID, userID uint64) (*model.Rating, error)
	Save(ctx context.Context, rating *model.Rating) error
	CountByType(ctx context.Context, operationID uint64) (RatingCounts, error)
}

type RatingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &RatingRepoImpl{db: db}
}

func (s *RatingRepoImpl) Get(ctx context.Context, operationID, userID uint64) (*model.Rating, error) {
	return firstOrNil[model.Rating](s.db.WithContext(ctx).
		Where("operation_id = ? AND user_id = ?", operationID, userID))
}

// Save ID 为 0 时插入，否则只更新评价类型
func (s *RatingRepoImpl) Save(ctx context.Context, rating *model.Rating) error {
	if rating.ID == 0 {
		err := s.db.WithContext(ctx).Create(rating).Error
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		if err != nil {
			return fmt.Errorf("create rating: %w", err)
		}
		return nil
	}
	return s.db.WithContext(ctx).Model(rating).Update("type", rating.Type).Error
}

func (s *RatingRepoImpl) CountByType(ctx context.Context, operationID uint64) (RatingCounts, error) {
	var rows []struct {
		Type  model.RatingType
		Total uint64
	}
	err := s.db.WithContext(ctx).Model(&model.Rating{}).
		Select("type, COUNT(*) AS total").
		Where("operation_id = ? AND type IN ?", operationID, []model.RatingType{model.RatingLike, model.RatingDislike}).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return RatingCounts{}, err
	}

	var counts RatingCounts
	for _, r := range rows {
		switch r.Type {
		case model.RatingLike:
			counts.Likes = r.Total
		case model.RatingDislike:
			counts.Dislikes = r.Total
		}
	}
	return counts, nil
}
