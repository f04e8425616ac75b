package engine

import (
	"Opsboard/internal/model"
	"math"
)

// NoRatingsRatio 没有任何评价时的好评率哨兵值，区别于 0% 好评
const NoRatingsRatio = -1.0

// ScoreConfig 热度分配置，倍率为有符号整数，惩罚通过负倍率表达
type ScoreConfig struct {
	InitialScore      int64
	LikeMultiplier    int64
	DislikeMultiplier int64
	ViewMultiplier    int64
}

// ScoreConfigSource 配置来源，每次计算读取一次
type ScoreConfigSource interface {
	ScoreConfig() ScoreConfig
}

// StaticScoreConfig 固定配置
type StaticScoreConfig ScoreConfig

func (s StaticScoreConfig) ScoreConfig() ScoreConfig {
	return ScoreConfig(s)
}

type HotScoreCalculator struct {
	source ScoreConfigSource
}

func NewHotScoreCalculator(source ScoreConfigSource) *HotScoreCalculator {
	if source == nil {
		panic("engine: nil score config source")
	}
	return &HotScoreCalculator{source: source}
}

// CalculateHotScore 读取实体上的计数计算热度分
func (c *HotScoreCalculator) CalculateHotScore(op *model.Operation) int64 {
	return c.CalculateHotScoreFromCounters(op.Likes, op.Dislikes, op.Views)
}

// CalculateHotScoreFromCounters 纯函数版本，便于预览与测试
func (c *HotScoreCalculator) CalculateHotScoreFromCounters(likes, dislikes, views uint64) int64 {
	cfg := c.source.ScoreConfig()
	return cfg.InitialScore +
		int64(likes)*cfg.LikeMultiplier +
		int64(dislikes)*cfg.DislikeMultiplier +
		int64(views)*cfg.ViewMultiplier
}

// Refresh 重算并写回缓存字段 HotScore
func (c *HotScoreCalculator) Refresh(op *model.Operation) int64 {
	op.HotScore = c.CalculateHotScore(op)
	return op.HotScore
}

// CalculateRatingRatio likes / (likes + dislikes)，保留四位小数
func CalculateRatingRatio(likes, dislikes uint64) float64 {
	total := likes + dislikes
	if total == 0 {
		return NoRatingsRatio
	}
	ratio := float64(likes) / float64(total)
	return math.Round(ratio*10000) / 10000
}
