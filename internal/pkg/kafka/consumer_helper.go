package kafka

import (
	"Opsboard/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	batchSize        = 32
	batchTimeout     = 1 * time.Second
	maxRetryInterval = 5 * time.Second
)

// ErrSkipMessage 消息与当前消费者无关，直接确认
var ErrSkipMessage = errors.New("skip message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重值定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			traceID := fmt.Sprintf("kafka-%s-%d-%d", m.Topic, m.Partition, m.Offset)
			ctx := logger.WithTraceID(session.Context(), traceID)
			retryInterval := 100 * time.Millisecond

			for {
				err := logic(ctx, m)
				if err == nil || errors.Is(err, ErrSkipMessage) {
					return
				}

				log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "err", err)
				select {
				case <-session.Context().Done():
					return
				case <-time.After(retryInterval):
				}

				retryInterval *= 2
				if retryInterval > maxRetryInterval {
					retryInterval = maxRetryInterval
				}
			}
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
		session.Commit()
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		log.Error("unmarshal canal message error", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		return nil, ErrSkipMessage
	}

	// DDL 与其它表的消息不重试
	if canalMsg.IsDDL || canalMsg.Table != tableName || len(canalMsg.Data) == 0 {
		return nil, ErrSkipMessage
	}

	return &canalMsg, nil
}
