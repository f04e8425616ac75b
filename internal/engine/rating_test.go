package engine

import (
	"Opsboard/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRatingState(t *testing.T) {
	tests := []struct {
		name      string
		previous  model.RatingType
		requested model.RatingType
		want      model.RatingType
	}{
		{"none to like", model.RatingNone, model.RatingLike, model.RatingLike},
		{"none to dislike", model.RatingNone, model.RatingDislike, model.RatingDislike},
		{"like toggles off", model.RatingLike, model.RatingLike, model.RatingNone},
		{"dislike toggles off", model.RatingDislike, model.RatingDislike, model.RatingNone},
		{"like to dislike", model.RatingLike, model.RatingDislike, model.RatingDislike},
		{"dislike to like", model.RatingDislike, model.RatingLike, model.RatingLike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextRatingState(tt.previous, tt.requested))
		})
	}
}

func TestApplyRatingCounterEdges(t *testing.T) {
	tests := []struct {
		name         string
		previous     model.RatingType
		requested    model.RatingType
		wantType     model.RatingType
		wantLikes    uint64
		wantDislikes uint64
	}{
		// 初始计数 likes=5 dislikes=5，已有评价已计入其中
		{"none + like", model.RatingNone, model.RatingLike, model.RatingLike, 6, 5},
		{"none + dislike", model.RatingNone, model.RatingDislike, model.RatingDislike, 5, 6},
		{"like + like", model.RatingLike, model.RatingLike, model.RatingNone, 4, 5},
		{"like + dislike", model.RatingLike, model.RatingDislike, model.RatingDislike, 4, 6},
		{"dislike + dislike", model.RatingDislike, model.RatingDislike, model.RatingNone, 5, 4},
		{"dislike + like", model.RatingDislike, model.RatingLike, model.RatingLike, 6, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &model.Operation{ID: 1, Likes: 5, Dislikes: 5}
			r := &model.Rating{ID: 9, OperationID: 1, UserID: 2, Type: tt.previous}

			got := ApplyRating(op, r, 2, tt.requested)

			assert.Same(t, r, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantLikes, op.Likes)
			assert.Equal(t, tt.wantDislikes, op.Dislikes)
		})
	}
}

func TestApplyRatingCreatesRecordWhenAbsent(t *testing.T) {
	op := &model.Operation{ID: 3}

	r := ApplyRating(op, nil, 7, model.RatingLike)

	require.NotNil(t, r)
	assert.Equal(t, uint64(3), r.OperationID)
	assert.Equal(t, uint64(7), r.UserID)
	assert.Equal(t, model.RatingLike, r.Type)
	assert.Equal(t, uint64(1), op.Likes)
}

func TestApplyRatingLikeTwiceReturnsToNone(t *testing.T) {
	op := &model.Operation{ID: 1}

	r := ApplyRating(op, nil, 1, model.RatingLike)
	r = ApplyRating(op, r, 1, model.RatingLike)

	assert.Equal(t, model.RatingNone, r.Type)
	assert.Equal(t, uint64(0), op.Likes)
	assert.Equal(t, uint64(0), op.Dislikes)
}

func TestApplyRatingSwitchFromLikeToDislike(t *testing.T) {
	op := &model.Operation{ID: 1}

	r := ApplyRating(op, nil, 1, model.RatingLike)
	r = ApplyRating(op, r, 1, model.RatingDislike)

	assert.Equal(t, model.RatingDislike, r.Type)
	assert.Equal(t, uint64(0), op.Likes)
	assert.Equal(t, uint64(1), op.Dislikes)
}

func TestApplyRatingCountersMatchRecords(t *testing.T) {
	op := &model.Operation{ID: 1}
	ratings := make(map[uint64]*model.Rating)

	actions := []struct {
		user uint64
		t    model.RatingType
	}{
		{1, model.RatingLike}, {2, model.RatingLike}, {3, model.RatingDislike},
		{1, model.RatingDislike}, {2, model.RatingLike}, {4, model.RatingLike},
		{3, model.RatingLike}, {4, model.RatingDislike}, {1, model.RatingDislike},
	}
	for _, a := range actions {
		ratings[a.user] = ApplyRating(op, ratings[a.user], a.user, a.t)
	}

	var likes, dislikes uint64
	for _, r := range ratings {
		switch r.Type {
		case model.RatingLike:
			likes++
		case model.RatingDislike:
			dislikes++
		}
	}
	assert.Len(t, ratings, 4)
	assert.Equal(t, likes, op.Likes)
	assert.Equal(t, dislikes, op.Dislikes)
}

func TestApplyRatingNeverGoesNegative(t *testing.T) {
	op := &model.Operation{ID: 1}
	r := &model.Rating{OperationID: 1, UserID: 1, Type: model.RatingLike}

	ApplyRating(op, r, 1, model.RatingDislike)

	assert.Equal(t, uint64(0), op.Likes)
	assert.Equal(t, uint64(1), op.Dislikes)
}

func TestApplyRatingPreconditions(t *testing.T) {
	op := &model.Operation{ID: 1}

	assert.Panics(t, func() { ApplyRating(op, nil, 1, model.RatingNone) })
	assert.Panics(t, func() { ApplyRating(op, nil, 1, model.RatingType(9)) })
	assert.Panics(t, func() { ApplyRating(nil, nil, 1, model.RatingLike) })
	assert.Panics(t, func() {
		ApplyRating(op, &model.Rating{OperationID: 2, UserID: 1}, 1, model.RatingLike)
	})
}

func TestApplyRatingRejectsOtherUsersRecord(t *testing.T) {
	op := &model.Operation{ID: 1, Likes: 1}
	theirs := &model.Rating{ID: 5, OperationID: 1, UserID: 2, Type: model.RatingLike}

	assert.Panics(t, func() { ApplyRating(op, theirs, 3, model.RatingLike) })
	assert.Equal(t, uint64(1), op.Likes)
	assert.Equal(t, model.RatingLike, theirs.Type)

	mine := ApplyRating(op, theirs, 2, model.RatingLike)
	assert.Equal(t, model.RatingNone, mine.Type)
	assert.Equal(t, uint64(0), op.Likes)
}
