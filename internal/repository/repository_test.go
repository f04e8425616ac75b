package repository

import (
	"Opsboard/internal/model"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const dryRunDSN = "opsboard:opsboard@tcp(127.0.0.1:3306)/opsboard?charset=utf8mb4&parseTime=True&loc=Local"

// sqlRecorder 记录 DryRun 生成的 SQL
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

// newDryRunDB 只生成 SQL 不连接数据库
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       dryRunDSN,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return db, rec
}

// failCreates 让之后的每次 INSERT 都以 err 失败
func failCreates(t *testing.T, db *gorm.DB, err error) {
	t.Helper()
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("opsboard:fail_create", func(tx *gorm.DB) { _ = tx.AddError(err) }))
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql 1062", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'idx_operation_user'"}, true},
		{"wrapped mysql 1062", fmt.Errorf("exec: %w", &mysqlDriver.MySQLError{Number: 1062}), true},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"foreign key", &mysqlDriver.MySQLError{Number: 1452}, false},
		{"other", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}

func TestRatingSave_MapsDuplicateKey(t *testing.T) {
	for _, cause := range []error{&mysqlDriver.MySQLError{Number: 1062}, gorm.ErrDuplicatedKey} {
		db, _ := newDryRunDB(t)
		failCreates(t, db, cause)

		err := NewRatingRepo(db).Save(context.Background(), &model.Rating{OperationID: 1, UserID: 2, Type: model.RatingLike})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	}

	db, _ := newDryRunDB(t)
	failCreates(t, db, &mysqlDriver.MySQLError{Number: 1452})
	err := NewRatingRepo(db).Save(context.Background(), &model.Rating{OperationID: 1, UserID: 2, Type: model.RatingLike})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), "create rating")
}

func TestRatingSave_InsertsThenUpdatesType(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewRatingRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &model.Rating{OperationID: 1, UserID: 2, Type: model.RatingLike}))
	require.NoError(t, repo.Save(ctx, &model.Rating{ID: 5, OperationID: 1, UserID: 2, Type: model.RatingNone}))

	require.Len(t, rec.statements, 2)
	assert.Contains(t, rec.statements[0], "INSERT INTO `ratings`")
	// 取消评价写回 0 而不是跳过零值
	assert.Contains(t, rec.statements[1], "UPDATE `ratings` SET `type`=0")
	assert.Contains(t, rec.statements[1], "`id` = 5")
	assert.NotContains(t, rec.statements[1], "operation_id")
}

func TestRatingCountByType(t *testing.T) {
	db, rec := newDryRunDB(t)

	counts, err := NewRatingRepo(db).CountByType(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, RatingCounts{}, counts)

	require.Len(t, rec.statements, 1)
	sql := rec.statements[0]
	assert.Contains(t, sql, "SELECT type, COUNT(*) AS total FROM `ratings`")
	assert.Contains(t, sql, "operation_id = 7 AND type IN (1,2)")
	assert.Contains(t, sql, "GROUP BY `type`")
}

func TestApplyMembershipChanges(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewFavoriteRepo(db)

	err := repo.ApplyMembershipChanges(context.Background(),
		[]model.FavoriteMembership{{ListID: 1, OperationID: 2}, {ListID: 1, OperationID: 3}},
		[]model.FavoriteMembership{{ListID: 1, OperationID: 9}},
	)
	require.NoError(t, err)

	require.Len(t, rec.statements, 2)
	assert.Contains(t, rec.statements[0], "DELETE FROM `favorite_memberships` WHERE list_id = 1 AND operation_id = 9")
	insert := rec.statements[1]
	assert.Contains(t, insert, "INSERT INTO `favorite_memberships`")
	assert.Contains(t, insert, "(1,2,")
	assert.Contains(t, insert, "(1,3,")
	// 已存在的关联不报错也不改写
	assert.Contains(t, insert, "ON DUPLICATE KEY UPDATE")

	rec.statements = nil
	require.NoError(t, repo.ApplyMembershipChanges(context.Background(), nil, nil))
	assert.Empty(t, rec.statements)
}

func TestLockActiveFiltersDeletedAndLocks(t *testing.T) {
	db, rec := newDryRunDB(t)

	_, err := NewOperationRepo(db).LockActive(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, rec.statements, 1)
	sql := rec.statements[0]
	assert.Contains(t, sql, "FROM `operations`")
	assert.Contains(t, sql, "is_deleted = false")
	assert.Contains(t, sql, "id = 3")
	assert.Contains(t, sql, "FOR UPDATE")
}
