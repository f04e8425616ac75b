package handler

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/api/middleware"
	"Opsboard/internal/pkg/response"
	"Opsboard/internal/pkg/util"
	"Opsboard/internal/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteSvc service.FavoriteService
}

func NewFavoriteHandler(favoriteSvc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteSvc: favoriteSvc,
	}
}

// GetUserLists 当前用户的收藏夹
func (s *FavoriteHandler) GetUserLists(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserID)
	lists, err := s.favoriteSvc.GetUserLists(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lists)
}

func (s *FavoriteHandler) CreateList(c *gin.Context) {
	var req dto.CreateFavoriteListDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	userID := c.GetUint64(middleware.ContextUserID)
	list, err := s.favoriteSvc.CreateList(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *FavoriteHandler) DeleteList(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserID)
	if err := s.favoriteSvc.DeleteList(c.Request.Context(), userID, c.Param("list_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FavoriteHandler) GetListOperations(c *gin.Context) {
	ops, err := s.favoriteSvc.GetListOperations(c.Request.Context(), c.Param("list_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ops)
}

// AddFavorite 重复收藏为空操作
func (s *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserID)
	result, err := s.favoriteSvc.AddFavorite(c.Request.Context(), userID, c.Param("list_id"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserID)
	result, err := s.favoriteSvc.RemoveFavorite(c.Request.Context(), userID, c.Param("list_id"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOperationFavoriters 收藏了该作战计划的收藏夹
func (s *FavoriteHandler) GetOperationFavoriters(c *gin.Context) {
	lists, err := s.favoriteSvc.GetOperationFavoriters(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lists)
}
