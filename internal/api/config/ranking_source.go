package config

import "Opsboard/internal/engine"

// RankingSource 以当前配置作为热度分计算的配置来源
type RankingSource struct{}

func (RankingSource) ScoreConfig() engine.ScoreConfig {
	rc := Ranking()
	return engine.ScoreConfig{
		InitialScore:      rc.InitialScore,
		LikeMultiplier:    rc.LikeMultiplier,
		DislikeMultiplier: rc.DislikeMultiplier,
		ViewMultiplier:    rc.ViewMultiplier,
	}
}
