package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/pkg/idcodec"
	"Opsboard/internal/pkg/mongo"
	"Opsboard/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	mongoDriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

type SysBoxService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.SysBoxPageDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	store      repository.Store
	codec      *idcodec.Codec
}

func NewSysBoxService(sysBoxRepo mongo.SysBoxRepo, store repository.Store, codec *idcodec.Codec) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBoxRepo,
		store:      store,
		codec:      codec,
	}
}

// GetNotificationList 列表与未读数并行查询
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.SysBoxPageDTO, error) {
	offset, limit := normalizePage(page, pageSize)

	var (
		models []*mongo.SysBoxModel
		unread int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		models, err = s.sysBoxRepo.GetNotificationList(gCtx, userID, int64(limit), int64(offset))
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = s.sysBoxRepo.GetUnreadCount(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(models))
	for _, m := range models {
		senderIDs = append(senderIDs, m.SenderID)
	}
	names := make(map[uint64]string, len(senderIDs))
	users, err := s.store.Users().GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		log.WarnContext(ctx, "get sender nickname failed", "err", err)
	}
	for _, u := range users {
		names[u.ID] = u.Nickname
	}

	list := make([]*dto.SysBoxDTO, 0, len(models))
	for _, m := range models {
		list = append(list, &dto.SysBoxDTO{
			ID:          m.ID.Hex(),
			SenderID:    m.SenderID,
			SenderName:  names[m.SenderID],
			Type:        m.Type,
			OperationID: s.codec.EncodeUint64(m.TargetID),
			Content:     m.Content,
			Payload:     m.Payload,
			IsRead:      m.IsRead,
			CreatedAt:   m.CreatedAt.Format(time.DateTime),
		})
	}

	return &dto.SysBoxPageDTO{List: list, UnreadCount: unread}, nil
}

func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	err := s.sysBoxRepo.MarkAsRead(ctx, userID, msgID)
	if errors.Is(err, mongo.ErrInvalidMessageID) || errors.Is(err, mongoDriver.ErrNoDocuments) {
		return ErrSysBoxNotFound
	}
	return err
}

func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}
