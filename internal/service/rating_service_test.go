package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingFixture struct {
	store *memStore
	rank  *memRank
	ops   OperationService
	rates RatingService
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	store := newMemStore()
	rank := newMemRank()
	codec := newTestCodec(t)
	calc := newTestCalculator()
	return &ratingFixture{
		store: store,
		rank:  rank,
		ops:   NewOperationService(store, codec, calc, rank, nil),
		rates: NewRatingService(store, codec, calc, rank),
	}
}

func TestRateOperation_Scenario(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	f.store.addUser(1, "author")
	f.store.addUser(2, "alice")
	f.store.addUser(3, "bob")

	created, err := f.ops.CreateOperation(ctx, 1, &dto.CreateOperationDTO{Title: "B 点默认架枪"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.HotScore)
	assert.Equal(t, engine.NoRatingsRatio, created.RatingRatio)

	state, err := f.rates.RateOperation(ctx, 2, created.ID, int8(model.RatingLike))
	require.NoError(t, err)
	assert.Equal(t, int8(model.RatingLike), state.RatingType)
	assert.Equal(t, uint64(1), state.Likes)

	state, err = f.rates.RateOperation(ctx, 3, created.ID, int8(model.RatingDislike))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), state.Dislikes)

	detail, err := f.ops.GetOperation(ctx, 2, created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), detail.Views)
	assert.Equal(t, int64(113), detail.HotScore)
	assert.Equal(t, 0.5, detail.RatingRatio)
	assert.Equal(t, int8(model.RatingLike), detail.MyRating)

	// 重复好评即取消
	state, err = f.rates.RateOperation(ctx, 2, created.ID, int8(model.RatingLike))
	require.NoError(t, err)
	assert.Equal(t, int8(model.RatingNone), state.RatingType)
	assert.Equal(t, uint64(0), state.Likes)
	assert.Equal(t, int64(103), state.HotScore)
	assert.Equal(t, 0.0, state.RatingRatio)

	id, ok := newTestCodec(t).DecodeUint64(created.ID)
	require.True(t, ok)
	assert.Equal(t, int64(103), f.rank.scores[id])
}

func TestRateOperation_SwitchKeepsSingleRecord(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	f.store.addUser(2, "alice")
	op := f.store.addOperation(1)
	publicID := newTestCodec(t).EncodeUint64(op.ID)

	_, err := f.rates.RateOperation(ctx, 2, publicID, int8(model.RatingLike))
	require.NoError(t, err)
	state, err := f.rates.RateOperation(ctx, 2, publicID, int8(model.RatingDislike))
	require.NoError(t, err)

	assert.Equal(t, uint64(0), state.Likes)
	assert.Equal(t, uint64(1), state.Dislikes)
	assert.Len(t, f.store.ratings, 1)

	got, err := f.rates.GetRatingState(ctx, 2, publicID)
	require.NoError(t, err)
	assert.Equal(t, int8(model.RatingDislike), got.RatingType)
}

func TestRateOperation_Rejects(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	f.store.addUser(2, "alice")
	op := f.store.addOperation(1)
	codec := newTestCodec(t)
	publicID := codec.EncodeUint64(op.ID)

	_, err := f.rates.RateOperation(ctx, 2, publicID, int8(model.RatingNone))
	assert.ErrorIs(t, err, ErrRatingTypeInvalid)

	_, err = f.rates.RateOperation(ctx, 2, "not-an-id", int8(model.RatingLike))
	assert.ErrorIs(t, err, ErrOperationNotFound)

	_, err = f.rates.RateOperation(ctx, 2, codec.EncodeUint64(op.ID+1000), int8(model.RatingLike))
	assert.ErrorIs(t, err, ErrOperationNotFound)

	_, err = f.rates.RateOperation(ctx, 99, publicID, int8(model.RatingLike))
	assert.ErrorIs(t, err, ErrUserNotFound)

	f.store.ops[op.ID].IsDeleted = true
	_, err = f.rates.RateOperation(ctx, 2, publicID, int8(model.RatingLike))
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestRateOperation_RetriesOnConcurrentFirstRating(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	f.store.addUser(2, "alice")
	op := f.store.addOperation(1)
	publicID := newTestCodec(t).EncodeUint64(op.ID)

	f.store.ratingConflicts = 1
	f.store.conflictRating = model.RatingDislike

	state, err := f.rates.RateOperation(ctx, 2, publicID, int8(model.RatingLike))
	require.NoError(t, err)
	assert.Equal(t, int8(model.RatingLike), state.RatingType)
	assert.Equal(t, uint64(1), state.Likes)
	assert.Equal(t, uint64(0), state.Dislikes)
	assert.Len(t, f.store.ratings, 1)
}

func TestRateOperation_RankFailureIsNotFatal(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()
	f.store.addUser(2, "alice")
	op := f.store.addOperation(1)
	f.rank.err = assert.AnError

	state, err := f.rates.RateOperation(ctx, 2, newTestCodec(t).EncodeUint64(op.ID), int8(model.RatingLike))
	require.NoError(t, err)
	assert.Equal(t, int64(110), state.HotScore)
	assert.Equal(t, int64(110), f.store.ops[op.ID].HotScore)
}
