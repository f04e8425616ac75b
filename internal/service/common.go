package service

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/engine"
	"Opsboard/internal/model"
	"Opsboard/internal/pkg/consts"
	"Opsboard/internal/pkg/idcodec"
	"slices"

	"github.com/jinzhu/copier"
)

// normalizePage 返回 offset, limit
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = consts.DefaultPageSize
	}
	if pageSize > consts.MaxPageSize {
		pageSize = consts.MaxPageSize
	}
	return (page - 1) * pageSize, pageSize
}

func isAdmin(roles []string) bool {
	return slices.Contains(roles, consts.RoleAdmin)
}

func toOperationDTO(codec *idcodec.Codec, op *model.Operation) *dto.OperationDTO {
	out := &dto.OperationDTO{}
	_ = copier.Copy(out, op)
	out.ID = codec.EncodeUint64(op.ID)
	out.AuthorID = op.UserID
	out.RatingRatio = engine.CalculateRatingRatio(op.Likes, op.Dislikes)
	return out
}

func toOperationDTOs(codec *idcodec.Codec, ops []*model.Operation) []*dto.OperationDTO {
	list := make([]*dto.OperationDTO, 0, len(ops))
	for _, op := range ops {
		list = append(list, toOperationDTO(codec, op))
	}
	return list
}

func toFavoriteListDTO(codec *idcodec.Codec, list *model.FavoriteList) *dto.FavoriteListDTO {
	out := &dto.FavoriteListDTO{}
	_ = copier.Copy(out, list)
	out.ID = codec.EncodeUint64(list.ID)
	out.OwnerID = list.UserID
	return out
}
