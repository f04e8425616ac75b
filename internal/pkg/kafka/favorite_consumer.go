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

// FavoritesHandler 作战计划被加入收藏夹时通知作者
type FavoritesHandler struct {
	store      repository.Store
	sysBoxRepo mongo.SysBoxRepo
}

func NewFavoritesHandler(store repository.Store, sysBox mongo.SysBoxRepo) *FavoritesHandler {
	return &FavoritesHandler{
		store:      store,
		sysBoxRepo: sysBox,
	}
}

func (s *FavoritesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("favorite consumer setup")
	return nil
}

func (s *FavoritesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("favorite consumer cleanup")
	return nil
}

func (s *FavoritesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-favorite consume claim")
	return pullMessageBatch(session, claim, s.logic)
}

func (s *FavoritesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.FavoriteMembership{}.TableName())
	if err != nil {
		return err
	}
	// 移除收藏不通知
	if canalMsg.Type != INSERT {
		return nil
	}

	for _, row := range canalMsg.Data {
		if err = s.notify(ctx, StrToUint64(row["list_id"]), StrToUint64(row["operation_id"])); err != nil {
			return err
		}
	}
	return nil
}

func (s *FavoritesHandler) notify(ctx context.Context, listID, operationID uint64) error {
	list, err := s.store.Favorites().GetActiveList(ctx, listID)
	if err != nil {
		return err
	}
	op, err := s.store.Operations().GetActive(ctx, operationID)
	if err != nil {
		return err
	}
	if list == nil || op == nil || op.UserID == list.UserID {
		return nil
	}

	notification := &mongo.SysBoxModel{
		ReceiverID: op.UserID,
		SenderID:   list.UserID,
		Type:       consts.SysBoxTypeFavorite,
		TargetID:   operationID,
		Content:    "收藏了你的作战计划",
		Payload: map[string]any{
			"operation_title": op.Title,
			"list_name":       list.Name,
		},
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err = s.sysBoxRepo.CreateNotification(ctx, notification); err != nil {
		return errors.Wrapf(err, "create favorite notification for operation %d", operationID)
	}
	log.InfoContext(ctx, "favorite notification created", "operationID", operationID, "listID", listID)
	return nil
}
