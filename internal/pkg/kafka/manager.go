package kafka

import (
	"Opsboard/internal/api/config"
	"Opsboard/internal/pkg/es"
	"Opsboard/internal/pkg/mongo"
	"Opsboard/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"golang.org/x/sync/errgroup"
)

type consumer struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	consumers []*consumer
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	store repository.Store,
	sysBoxRepo mongo.SysBoxRepo,
	operationESRepo es.OperationRepo,
) (*ConsumerManager, error) {
	saramaCfg, err := newSaramaConfig(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	specs := []struct {
		name    string
		topic   config.KafkaConsumerTopic
		handler sarama.ConsumerGroupHandler
	}{
		{"rating", cfg.KafkaRatingConsumer, NewRatingsHandler(store, sysBoxRepo)},
		{"favorite", cfg.KafkaFavoriteConsumer, NewFavoritesHandler(store, sysBoxRepo)},
		{"operation", cfg.KafkaOperationConsumer, NewOperationsHandler(operationESRepo)},
	}

	m := &ConsumerManager{}
	for _, spec := range specs {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, spec.topic.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.consumers = append(m.consumers, &consumer{
			name:    spec.name,
			topic:   spec.topic.Topic,
			group:   group,
			handler: spec.handler,
		})
	}
	return m, nil
}

// Start 启动所有消费者，ctx 取消后关闭消费组并返回
func (m *ConsumerManager) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	for _, c := range m.consumers {
		g.Go(func() error {
			log.Info("consumer started", "name", c.name, "topic", c.topic)
			for {
				if err := c.group.Consume(gCtx, []string{c.topic}, c.handler); err != nil {
					log.Error("Error from consumer", "name", c.name, "err", err)
				}
				if gCtx.Err() != nil {
					return nil
				}
			}
		})
		g.Go(func() error {
			for {
				select {
				case err, ok := <-c.group.Errors():
					if !ok {
						return nil
					}
					log.Error("consumer group error", "name", c.name, "err", err)
				case <-gCtx.Done():
					return nil
				}
			}
		})
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	m.close()
	return g.Wait()
}

func (m *ConsumerManager) close() {
	for _, c := range m.consumers {
		if err := c.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", c.name, "err", err)
		}
	}
}
