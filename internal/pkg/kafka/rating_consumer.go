package kafka

import (
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/consts"
	"Opsboard/internal/pkg/mongo"
	"Opsboard/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// RatingsHandler 作战计划收到好评时通知作者
type RatingsHandler struct {
	store      repository.Store
	sysBoxRepo mongo.SysBoxRepo
}

func NewRatingsHandler(store repository.Store, sysBox mongo.SysBoxRepo) *RatingsHandler {
	return &RatingsHandler{
		store:      store,
		sysBoxRepo: sysBox,
	}
}

func (s *RatingsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("rating consumer setup")
	return nil
}

func (s *RatingsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("rating consumer cleanup")
	return nil
}

func (s *RatingsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-rating consume claim")
	return pullMessageBatch(session, claim, s.logic)
}

func (s *RatingsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.Rating{}.TableName())
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT && canalMsg.Type != UPDATE {
		return nil
	}

	for i, row := range canalMsg.Data {
		if !becameLike(row, canalMsg.OldRow(i), canalMsg.Type) {
			continue
		}
		if err = s.notify(ctx, StrToUint64(row["user_id"]), StrToUint64(row["operation_id"])); err != nil {
			return err
		}
	}
	return nil
}

// becameLike 只有迁移到好评时才通知，取消或差评不打扰作者
func becameLike(row, old map[string]interface{}, eventType string) bool {
	if model.RatingType(StrToInt64(row["type"])) != model.RatingLike {
		return false
	}
	if eventType == INSERT {
		return true
	}
	_, typeChanged := old["type"]
	return typeChanged
}

func (s *RatingsHandler) notify(ctx context.Context, senderID, operationID uint64) error {
	op, err := s.store.Operations().GetActive(ctx, operationID)
	if err != nil {
		return err
	}
	if op == nil || op.UserID == senderID {
		return nil
	}

	notification := &mongo.SysBoxModel{
		ReceiverID: op.UserID,
		SenderID:   senderID,
		Type:       consts.SysBoxTypeRating,
		TargetID:   operationID,
		Content:    "赞了你的作战计划",
		Payload: map[string]any{
			"operation_title": op.Title,
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err = s.sysBoxRepo.CreateNotification(ctx, notification); err != nil {
		return errors.Wrapf(err, "create rating notification for operation %d", operationID)
	}
	log.InfoContext(ctx, "rating notification created", "operationID", operationID, "senderID", senderID)
	return nil
}
