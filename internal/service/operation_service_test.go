package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/consts"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOperationFixture(t *testing.T) (*memStore, *memRank, OperationService) {
	t.Helper()
	store := newMemStore()
	rank := newMemRank()
	return store, rank, NewOperationService(store, newTestCodec(t), newTestCalculator(), rank, nil)
}

func TestDeleteOperation_DetachesFromLists(t *testing.T) {
	store, rank, svc := newOperationFixture(t)
	codec := newTestCodec(t)
	ctx := context.Background()

	op := store.addOperation(1)
	other := store.addOperation(1)
	l1, l2 := store.addList(7), store.addList(8)
	store.link(l1.ID, op.ID)
	store.link(l2.ID, op.ID)
	store.link(l1.ID, other.ID)
	rank.scores[op.ID] = 100

	require.NoError(t, svc.DeleteOperation(ctx, 1, nil, codec.EncodeUint64(op.ID)))

	assert.True(t, store.ops[op.ID].IsDeleted)
	assert.Len(t, store.members, 1)
	_, ok := store.members[engine.MembershipKey{ListID: l1.ID, OperationID: other.ID}]
	assert.True(t, ok)
	assert.NotContains(t, rank.scores, op.ID)

	_, err := svc.GetOperation(ctx, 0, codec.EncodeUint64(op.ID))
	assert.ErrorIs(t, err, ErrOperationNotFound)
	assert.ErrorIs(t, svc.DeleteOperation(ctx, 1, nil, codec.EncodeUint64(op.ID)), ErrOperationNotFound)
}

func TestDeleteOperation_Permissions(t *testing.T) {
	store, _, svc := newOperationFixture(t)
	codec := newTestCodec(t)
	ctx := context.Background()

	op := store.addOperation(1)
	publicID := codec.EncodeUint64(op.ID)

	assert.ErrorIs(t, svc.DeleteOperation(ctx, 2, []string{consts.RoleUser}, publicID), UnauthorizedError)
	assert.False(t, store.ops[op.ID].IsDeleted)

	require.NoError(t, svc.DeleteOperation(ctx, 2, []string{consts.RoleAdmin}, publicID))
	assert.True(t, store.ops[op.ID].IsDeleted)
}

func TestGetOperation_CountsViews(t *testing.T) {
	store, rank, svc := newOperationFixture(t)
	codec := newTestCodec(t)
	ctx := context.Background()

	op := store.addOperation(1)
	publicID := codec.EncodeUint64(op.ID)

	for i := 0; i < 3; i++ {
		_, err := svc.GetOperation(ctx, 0, publicID)
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(3), store.ops[op.ID].Views)
	assert.Equal(t, int64(103), store.ops[op.ID].HotScore)
	assert.Equal(t, int64(103), rank.scores[op.ID])

	_, err := svc.GetOperation(ctx, 0, "")
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestListHotOperations_FallsBackToDatabase(t *testing.T) {
	store, rank, svc := newOperationFixture(t)
	ctx := context.Background()

	low, high := store.addOperation(1), store.addOperation(1)
	store.ops[low.ID].HotScore = 10
	store.ops[high.ID].HotScore = 50

	// 排行榜为空，回源数据库
	page, err := svc.ListHotOperations(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.List, 2)
	assert.Equal(t, int64(50), page.List[0].HotScore)

	// 排行榜引用了已删除的作战计划，同样回源
	rank.scores[high.ID] = 50
	rank.scores[low.ID] = 10
	store.ops[high.ID].IsDeleted = true
	page, err = svc.ListHotOperations(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, int64(10), page.List[0].HotScore)

	rank.err = assert.AnError
	page, err = svc.ListHotOperations(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.List, 1)
}

func TestListHotOperations_ServesFromRank(t *testing.T) {
	store, rank, svc := newOperationFixture(t)
	ctx := context.Background()

	a, b := store.addOperation(1), store.addOperation(1)
	// 数据库与排行榜顺序相反，结果应跟随排行榜
	store.ops[a.ID].HotScore = 1
	store.ops[b.ID].HotScore = 2
	rank.scores[a.ID] = 20
	rank.scores[b.ID] = 10

	page, err := svc.ListHotOperations(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.List, 2)
	assert.Equal(t, newTestCodec(t).EncodeUint64(a.ID), page.List[0].ID)
}

func TestListHotOperations_ScoreDropBelowTrimmed(t *testing.T) {
	store := newMemStore()
	rank, _ := newTestRank(t, 2)
	codec := newTestCodec(t)
	calc := newTestCalculator()
	ops := NewOperationService(store, codec, calc, rank, nil)
	rates := NewRatingService(store, codec, calc, rank)
	ctx := context.Background()
	store.addUser(1, "author")
	store.addUser(2, "alice")
	store.addUser(3, "bob")

	var ids []string
	for _, title := range []string{"A 大", "B 小", "中路"} {
		created, err := ops.CreateOperation(ctx, 1, &dto.CreateOperationDTO{Title: title})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	op1, op2, op3 := ids[0], ids[1], ids[2]

	_, err := rates.RateOperation(ctx, 2, op1, int8(model.RatingLike))
	require.NoError(t, err)
	_, err = rates.RateOperation(ctx, 3, op1, int8(model.RatingLike))
	require.NoError(t, err)
	_, err = rates.RateOperation(ctx, 2, op2, int8(model.RatingLike))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = ops.GetOperation(ctx, 0, op3)
		require.NoError(t, err)
	}
	// op1=120 op2=110 op3=103，op3 已被挤出排行榜；取消好评后 op2=100
	_, err = rates.RateOperation(ctx, 2, op2, int8(model.RatingLike))
	require.NoError(t, err)

	page, err := ops.ListHotOperations(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, op1, page.List[0].ID)

	page, err = ops.ListHotOperations(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, op3, page.List[0].ID)
	assert.Equal(t, int64(103), page.List[0].HotScore)

	page, err = ops.ListHotOperations(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, page.List, 3)
	assert.Equal(t, []string{op1, op3, op2}, []string{page.List[0].ID, page.List[1].ID, page.List[2].ID})
}

func TestCreateOperation_LargeIDs(t *testing.T) {
	store, _, svc := newOperationFixture(t)
	ctx := context.Background()
	store.addUser(1, "author")
	store.nextID = math.MaxInt32

	created, err := svc.CreateOperation(ctx, 1, &dto.CreateOperationDTO{Title: "长枪压制"})
	require.NoError(t, err)

	id, ok := newTestCodec(t).DecodeUint64(created.ID)
	require.True(t, ok)
	assert.Equal(t, uint64(math.MaxInt32)+1, id)

	detail, err := svc.GetOperation(ctx, 0, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)
}

func TestReconcileBatch_FixesCounters(t *testing.T) {
	store, _, svc := newOperationFixture(t)
	ctx := context.Background()

	op := store.addOperation(1)
	clean := store.addOperation(1)
	store.ops[clean.ID].HotScore = 100
	// 计数漂移：记录中只有一个好评
	store.ops[op.ID].Likes = 5
	store.ratings[[2]uint64{op.ID, 2}] = ratingOf(op.ID, 2, 1)
	store.ratings[[2]uint64{op.ID, 3}] = ratingOf(op.ID, 3, 0)

	result, err := svc.ReconcileBatch(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Fixed)
	assert.Equal(t, uint64(0), result.LastID)
	assert.Len(t, result.Entries, 2)
	assert.Equal(t, uint64(1), store.ops[op.ID].Likes)
	assert.Equal(t, int64(110), store.ops[op.ID].HotScore)

	result, err = svc.ReconcileBatch(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Fixed)
	assert.Equal(t, op.ID, result.LastID)
}
