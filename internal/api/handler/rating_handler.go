package handler

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/api/middleware"
	"Opsboard/internal/pkg/response"
	"Opsboard/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingSvc: ratingSvc,
	}
}

// RateOperation 好评/差评，重复提交同一类型为取消
func (s *RatingHandler) RateOperation(c *gin.Context) {
	var req dto.RateOperationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrRatingTypeInvalid)
		return
	}

	userID := c.GetUint64(middleware.ContextUserID)
	state, err := s.ratingSvc.RateOperation(c.Request.Context(), userID, c.Param("id"), req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *RatingHandler) GetRatingState(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserID)
	state, err := s.ratingSvc.GetRatingState(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}
