package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// ranking 热度分配置支持热更新，单独保存
var ranking atomic.Pointer[RankingConfig]

// LoadConfig 从 ./configs/config.yaml 加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	return load(v, true)
}

// LoadConfigFile 从指定文件加载配置，不监听变更
func LoadConfigFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, false)
}

func load(v *viper.Viper, watch bool) error {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg
	SetRanking(cfg.Ranking)

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			var rc RankingConfig
			if err := v.UnmarshalKey("ranking", &rc); err != nil {
				log.Error("failed to reload ranking config", "file", e.Name, "err", err)
				return
			}
			SetRanking(rc)
			log.Info("ranking config reloaded", "file", e.Name, "ranking", rc)
		})
		v.WatchConfig()
	}

	return nil
}

// SetRanking 替换当前热度分配置
func SetRanking(rc RankingConfig) {
	ranking.Store(&rc)
}

// Ranking 返回当前热度分配置
func Ranking() RankingConfig {
	if rc := ranking.Load(); rc != nil {
		return *rc
	}
	return RankingConfig{}
}
