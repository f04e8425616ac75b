package engine

import (
	"Opsboard/internal/model"
	"fmt"
)

// NextRatingState 计算评价状态迁移：重复同一操作视为取消评价
func NextRatingState(previous, requested model.RatingType) model.RatingType {
	mustBeRequestable(requested)
	if requested == previous {
		return model.RatingNone
	}
	return requested
}

// ApplyRating 对内存中的 operation 与 rating 执行一次评价动作。
// rating 为 nil 表示该用户尚无记录，此时新建一条并返回；否则原地修改并返回同一条记录。
// operation 与 user 的存在性由调用方保证。
func ApplyRating(op *model.Operation, rating *model.Rating, userID uint64, requested model.RatingType) *model.Rating {
	if op == nil {
		panic("engine: ApplyRating on nil operation")
	}
	mustBeRequestable(requested)

	if rating == nil {
		rating = &model.Rating{OperationID: op.ID, UserID: userID, Type: model.RatingNone}
	} else if rating.OperationID != op.ID {
		panic(fmt.Sprintf("engine: rating %d belongs to operation %d, not %d", rating.ID, rating.OperationID, op.ID))
	} else if rating.UserID != userID {
		panic(fmt.Sprintf("engine: rating %d belongs to user %d, not %d", rating.ID, rating.UserID, userID))
	}

	previous := rating.Type
	next := NextRatingState(previous, requested)

	// 四条边独立判断，无需枚举每种迁移组合
	if previous == model.RatingLike && next != model.RatingLike {
		op.Likes = decrement(op.Likes)
	}
	if previous == model.RatingDislike && next != model.RatingDislike {
		op.Dislikes = decrement(op.Dislikes)
	}
	if previous != model.RatingLike && next == model.RatingLike {
		op.Likes++
	}
	if previous != model.RatingDislike && next == model.RatingDislike {
		op.Dislikes++
	}

	rating.Type = next
	return rating
}

// IsRequestable 只有 Like / Dislike 可以由用户主动提交
func IsRequestable(t model.RatingType) bool {
	return t == model.RatingLike || t == model.RatingDislike
}

func mustBeRequestable(t model.RatingType) {
	if !IsRequestable(t) {
		panic(fmt.Sprintf("engine: rating type %d cannot be requested", t))
	}
}

// 计数与评价记录不一致时不允许出现负数，由对账任务修复
func decrement(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return n - 1
}
