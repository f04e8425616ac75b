package engine

import "Opsboard/internal/model"

// AddViewCount 浏览量 +1，不重算热度分
func AddViewCount(op *model.Operation) {
	if op == nil {
		panic("engine: AddViewCount on nil operation")
	}
	op.Views++
}
