package kafka

import (
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// 只有这些列变化时走局部更新
var counterColumns = map[string]struct{}{
	"likes":      {},
	"dislikes":   {},
	"views":      {},
	"hot_score":  {},
	"updated_at": {},
}

// OperationsHandler 将作战计划表的变更同步到 ES
type OperationsHandler struct {
	esRepo es.OperationRepo
}

func NewOperationsHandler(esRepo es.OperationRepo) *OperationsHandler {
	return &OperationsHandler{esRepo: esRepo}
}

func (s *OperationsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("operation consumer setup")
	return nil
}

func (s *OperationsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("operation consumer cleanup")
	return nil
}

func (s *OperationsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-operation consume claim")
	return pullMessageBatch(session, claim, s.logic)
}

func (s *OperationsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.Operation{}.TableName())
	if err != nil {
		return err
	}

	for i, row := range canalMsg.Data {
		id := StrToUint64(row["id"])
		if id == 0 {
			continue
		}

		switch {
		case canalMsg.Type == DELETE || StrToBool(row["is_deleted"]):
			err = s.esRepo.DeleteOperation(ctx, id)
		case canalMsg.Type == UPDATE && onlyCounters(canalMsg.OldRow(i)):
			err = s.esRepo.UpdateCounters(ctx, id,
				StrToUint64(row["likes"]),
				StrToUint64(row["dislikes"]),
				StrToUint64(row["views"]),
				StrToInt64(row["hot_score"]),
			)
		case canalMsg.Type == INSERT || canalMsg.Type == UPDATE:
			err = s.esRepo.IndexOperation(ctx, toOperationES(row), canalMsg.ES)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func onlyCounters(old map[string]interface{}) bool {
	if len(old) == 0 {
		return false
	}
	for col := range old {
		if _, ok := counterColumns[col]; !ok {
			return false
		}
	}
	return true
}

func toOperationES(row map[string]interface{}) *es.OperationES {
	return &es.OperationES{
		ID:          StrToUint64(row["id"]),
		UserID:      StrToUint64(row["user_id"]),
		Title:       StrToString(row["title"]),
		Description: StrToString(row["description"]),
		Map:         StrToString(row["map"]),
		Likes:       StrToUint64(row["likes"]),
		Dislikes:    StrToUint64(row["dislikes"]),
		Views:       StrToUint64(row["views"]),
		HotScore:    StrToInt64(row["hot_score"]),
		CreatedAt:   StrToTime(row["created_at"]),
		UpdatedAt:   StrToTime(row["updated_at"]),
	}
}
