package repository

import (
	"context"
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateKey 唯一索引冲突
var ErrDuplicateKey = errors.New("duplicate key")

const mysqlDuplicateEntry = 1062

// Store 持久层的工作单元。
// 同一个 Store 内的所有仓库共享同一个连接或事务，Transaction 内拿到的 tx 只在回调中有效。
type Store interface {
	Operations() OperationRepo
	Ratings() RatingRepo
	Favorites() FavoriteRepo
	Users() UserRepo
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db        *gorm.DB
	operation OperationRepo
	rating    RatingRepo
	favorite  FavoriteRepo
	user      UserRepo
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:        db,
		operation: NewOperationRepo(db),
		rating:    NewRatingRepo(db),
		favorite:  NewFavoriteRepo(db),
		user:      NewUserRepo(db),
	}
}

func (s *gormStore) Operations() OperationRepo { return s.operation }
func (s *gormStore) Ratings() RatingRepo       { return s.rating }
func (s *gormStore) Favorites() FavoriteRepo   { return s.favorite }
func (s *gormStore) Users() UserRepo           { return s.user }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Active 只查询未软删除的记录，读路径需要显式使用
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// firstOrNil 未找到时返回 nil, nil
func firstOrNil[T any](db *gorm.DB) (*T, error) {
	var v T
	err := db.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
