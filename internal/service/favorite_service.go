package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/idcodec"
	"Opsboard/internal/repository"
	"context"
	log "log/slog"
)

type FavoriteService interface {
	CreateList(ctx context.Context, userID uint64, req *dto.CreateFavoriteListDTO) (*dto.FavoriteListDTO, error)
	DeleteList(ctx context.Context, userID uint64, listPublicID string) error
	AddFavorite(ctx context.Context, userID uint64, listPublicID, operationPublicID string) (*dto.FavoriteChangeDTO, error)
	RemoveFavorite(ctx context.Context, userID uint64, listPublicID, operationPublicID string) (*dto.FavoriteChangeDTO, error)
	GetListOperations(ctx context.Context, listPublicID string) ([]*dto.OperationDTO, error)
	GetOperationFavoriters(ctx context.Context, operationPublicID string) ([]*dto.FavoriteListDTO, error)
	GetUserLists(ctx context.Context, userID uint64) ([]*dto.FavoriteListDTO, error)
}

type favoriteServiceImpl struct {
	store repository.Store
	codec *idcodec.Codec
}

func NewFavoriteService(store repository.Store, codec *idcodec.Codec) FavoriteService {
	return &favoriteServiceImpl{store: store, codec: codec}
}

func (s *favoriteServiceImpl) CreateList(ctx context.Context, userID uint64, req *dto.CreateFavoriteListDTO) (*dto.FavoriteListDTO, error) {
	if req == nil || req.Name == "" {
		return nil, ErrParamInvalid
	}
	user, err := s.store.Users().GetActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	list := engine.CreateList(userID, req.Name)
	if err = s.store.Favorites().CreateList(ctx, list); err != nil {
		return nil, err
	}
	return toFavoriteListDTO(s.codec, list), nil
}

// DeleteList 删除收藏夹及其全部收藏关系，被收藏的作战计划不受影响
func (s *favoriteServiceImpl) DeleteList(ctx context.Context, userID uint64, listPublicID string) error {
	listID, ok := s.codec.DecodeUint64(listPublicID)
	if !ok {
		return ErrFavoriteListNotFound
	}

	removed := 0
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		list, err := s.lockOwnedList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		loaded, err := tx.Favorites().MembershipsOfList(ctx, list.ID)
		if err != nil {
			return err
		}
		rel := engine.NewMemberships(loaded)
		removed = engine.DeleteList(rel, list)
		if err = s.commit(ctx, tx, rel); err != nil {
			return err
		}
		return tx.Favorites().MarkListDeleted(ctx, list.ID)
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "favorite list deleted", "listID", listID, "removed", removed)
	return nil
}

func (s *favoriteServiceImpl) AddFavorite(ctx context.Context, userID uint64, listPublicID, operationPublicID string) (*dto.FavoriteChangeDTO, error) {
	return s.changeMembership(ctx, userID, listPublicID, operationPublicID, true)
}

func (s *favoriteServiceImpl) RemoveFavorite(ctx context.Context, userID uint64, listPublicID, operationPublicID string) (*dto.FavoriteChangeDTO, error) {
	return s.changeMembership(ctx, userID, listPublicID, operationPublicID, false)
}

// changeMembership 锁顺序：作战计划 -> 收藏夹，与删除作战计划保持一致
func (s *favoriteServiceImpl) changeMembership(ctx context.Context, userID uint64, listPublicID, operationPublicID string, add bool) (*dto.FavoriteChangeDTO, error) {
	listID, ok := s.codec.DecodeUint64(listPublicID)
	if !ok {
		return nil, ErrFavoriteListNotFound
	}
	opID, ok := s.codec.DecodeUint64(operationPublicID)
	if !ok {
		return nil, ErrOperationNotFound
	}

	changed := false
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		op, err := tx.Operations().LockActive(ctx, opID)
		if err != nil {
			return err
		}
		if op == nil {
			return ErrOperationNotFound
		}
		list, err := s.lockOwnedList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}

		loaded, err := tx.Favorites().Membership(ctx, list.ID, op.ID)
		if err != nil {
			return err
		}
		rel := engine.NewMemberships(loaded)
		if add {
			changed = engine.AddFavorite(rel, list, op)
		} else {
			changed = engine.RemoveFavorite(rel, list, op)
		}
		return s.commit(ctx, tx, rel)
	})
	if err != nil {
		return nil, err
	}

	return &dto.FavoriteChangeDTO{
		ListID:      listPublicID,
		OperationID: operationPublicID,
		Favorited:   add,
		Changed:     changed,
	}, nil
}

func (s *favoriteServiceImpl) GetListOperations(ctx context.Context, listPublicID string) ([]*dto.OperationDTO, error) {
	listID, ok := s.codec.DecodeUint64(listPublicID)
	if !ok {
		return nil, ErrFavoriteListNotFound
	}
	list, err := s.store.Favorites().GetActiveList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrFavoriteListNotFound
	}

	loaded, err := s.store.Favorites().MembershipsOfList(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	ops, err := s.store.Operations().GetActiveByIDs(ctx, engine.NewMemberships(loaded).OperationsOf(list.ID))
	if err != nil {
		return nil, err
	}
	return toOperationDTOs(s.codec, ops), nil
}

func (s *favoriteServiceImpl) GetOperationFavoriters(ctx context.Context, operationPublicID string) ([]*dto.FavoriteListDTO, error) {
	opID, ok := s.codec.DecodeUint64(operationPublicID)
	if !ok {
		return nil, ErrOperationNotFound
	}
	op, err := s.store.Operations().GetActive(ctx, opID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperationNotFound
	}

	loaded, err := s.store.Favorites().MembershipsOfOperation(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	lists, err := s.store.Favorites().GetActiveListsByIDs(ctx, engine.NewMemberships(loaded).ListsOf(op.ID))
	if err != nil {
		return nil, err
	}
	return s.toListDTOs(lists), nil
}

func (s *favoriteServiceImpl) GetUserLists(ctx context.Context, userID uint64) ([]*dto.FavoriteListDTO, error) {
	lists, err := s.store.Favorites().ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toListDTOs(lists), nil
}

// lockOwnedList 不存在与无权限分开返回，便于前端提示
func (s *favoriteServiceImpl) lockOwnedList(ctx context.Context, tx repository.Store, userID, listID uint64) (*model.FavoriteList, error) {
	list, err := tx.Favorites().LockActiveList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrFavoriteListNotFound
	}
	if list.UserID != userID {
		return nil, UnauthorizedError
	}
	return list, nil
}

func (s *favoriteServiceImpl) commit(ctx context.Context, tx repository.Store, rel *engine.Memberships) error {
	added, removed := rel.Changes()
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}
	return tx.Favorites().ApplyMembershipChanges(ctx, added, removed)
}

func (s *favoriteServiceImpl) toListDTOs(lists []*model.FavoriteList) []*dto.FavoriteListDTO {
	out := make([]*dto.FavoriteListDTO, 0, len(lists))
	for _, l := range lists {
		out = append(out, toFavoriteListDTO(s.codec, l))
	}
	return out
}
