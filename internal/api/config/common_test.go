package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 8080
database:
  dsn: "root:root@tcp(127.0.0.1:3306)/opsboard"
  max_idle: 5
  max_open: 20
kafka:
  brokers: ["127.0.0.1:9092"]
kafka_rating_consumer:
  topic: canal-ratings
  group_id: opsboard-ratings
ranking:
  initial_score: 100
  like_multiplier: 10
  dislike_multiplier: 2
  view_multiplier: 1
  hot_key_size: 500
id_codec:
  alphabet: "abcdefghijklmnopqrstuvwxyz0123456789"
  min_length: 8
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	require.NoError(t, LoadConfigFile(writeConfig(t, sampleYAML)))

	require.NotNil(t, Cfg)
	assert.Equal(t, 8080, Cfg.Server.Port)
	assert.Equal(t, 20, Cfg.DB.MaxOpen)
	assert.Equal(t, []string{"127.0.0.1:9092"}, Cfg.Kafka.Brokers)
	assert.Equal(t, "canal-ratings", Cfg.KafkaRatingConsumer.Topic)
	assert.Equal(t, uint8(8), Cfg.IDCodec.MinLength)
	assert.Equal(t, int64(500), Cfg.Ranking.HotKeySize)
}

func TestRankingSourceReadsCurrentConfig(t *testing.T) {
	require.NoError(t, LoadConfigFile(writeConfig(t, sampleYAML)))

	sc := RankingSource{}.ScoreConfig()
	assert.Equal(t, int64(100), sc.InitialScore)
	assert.Equal(t, int64(10), sc.LikeMultiplier)
	assert.Equal(t, int64(2), sc.DislikeMultiplier)
	assert.Equal(t, int64(1), sc.ViewMultiplier)

	SetRanking(RankingConfig{InitialScore: 1, DislikeMultiplier: -3})
	sc = RankingSource{}.ScoreConfig()
	assert.Equal(t, int64(1), sc.InitialScore)
	assert.Equal(t, int64(-3), sc.DislikeMultiplier)
}

func TestLoadConfigFileMissing(t *testing.T) {
	err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
