package kafka

import (
	"Opsboard/internal/api/config"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

const defaultClientID = "opsboard"

// newSaramaConfig Canal 消费组共用配置：位点手动提交，sticky 分配减少重平衡时的 topic 迁移
func newSaramaConfig(kafkaCfg config.KafkaConfig) (*sarama.Config, error) {
	c := sarama.NewConfig()

	if kafkaCfg.Version != "" {
		version, err := sarama.ParseKafkaVersion(kafkaCfg.Version)
		if err != nil {
			return nil, fmt.Errorf("kafka version %q: %w", kafkaCfg.Version, err)
		}
		c.Version = version
	}

	c.ClientID = kafkaCfg.ClientID
	if c.ClientID == "" {
		c.ClientID = defaultClientID
	}

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	consumer := kafkaCfg.Consumer
	switch consumer.InitialOffset {
	case "", "newest":
		c.Consumer.Offsets.Initial = sarama.OffsetNewest
	case "oldest":
		c.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		return nil, fmt.Errorf("kafka initial offset %q: want newest or oldest", consumer.InitialOffset)
	}

	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}
	setSeconds(&c.Consumer.Group.Session.Timeout, consumer.SessionTimeout)
	setSeconds(&c.Consumer.Group.Heartbeat.Interval, consumer.HeartbeatInterval)
	setSeconds(&c.Consumer.Group.Rebalance.Timeout, consumer.RebalanceTimeout)
	setSeconds(&c.Consumer.MaxProcessingTime, consumer.MaxProcessingTime)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// setSeconds 未配置时保留 sarama 默认值
func setSeconds(dst *time.Duration, seconds int) {
	if seconds > 0 {
		*dst = time.Duration(seconds) * time.Second
	}
}
