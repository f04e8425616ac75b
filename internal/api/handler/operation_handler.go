package handler

import (
	"Opsboard/internal/api/dto"
	"Opsboard/internal/api/middleware"
	"Opsboard/internal/pkg/response"
	"Opsboard/internal/pkg/util"
	"Opsboard/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type OperationHandler struct {
	operationSvc service.OperationService
}

func NewOperationHandler(operationSvc service.OperationService) *OperationHandler {
	return &OperationHandler{
		operationSvc: operationSvc,
	}
}

// CreateOperation 上传作战计划
func (s *OperationHandler) CreateOperation(c *gin.Context) {
	var req dto.CreateOperationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	userID := c.GetUint64(middleware.ContextUserID)
	op, err := s.operationSvc.CreateOperation(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, op)
}

// GetOperation 详情，每次访问记一次浏览
func (s *OperationHandler) GetOperation(c *gin.Context) {
	viewerID := c.GetUint64(middleware.ContextUserID)
	op, err := s.operationSvc.GetOperation(c.Request.Context(), viewerID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, op)
}

// DeleteOperation 作者或管理员删除
func (s *OperationHandler) DeleteOperation(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserID)
	roles := c.GetStringSlice(middleware.ContextRoles)
	if err := s.operationSvc.DeleteOperation(c.Request.Context(), userID, roles, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListHotOperations 热度榜
func (s *OperationHandler) ListHotOperations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := s.operationSvc.ListHotOperations(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchOperations 关键词搜索
func (s *OperationHandler) SearchOperations(c *gin.Context) {
	var req dto.SearchOperationDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	result, err := s.operationSvc.SearchOperations(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
