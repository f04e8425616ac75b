package consts

const (
	OperationHotRankKey = "operation:rank:hot"
	// 被挤出排行榜的最高分，低于它的分数不能留在榜内
	OperationHotRankFloorKey = "operation:rank:hot:floor"
)

const (
	RankReconcileLock = "lock:rank:reconcile"
)

const (
	TokenBlacklistKey = "auth:blacklist:"
)
