package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserInactive         = errors.New("用户已被封禁或注销")
	ErrOperationNotFound    = errors.New("作战计划不存在")
	ErrFavoriteListNotFound = errors.New("收藏夹不存在")
	ErrRatingTypeInvalid    = errors.New("评价类型错误")
	ErrConcurrentUpdate     = errors.New("操作冲突，请重试")
	ErrSysBoxNotFound       = errors.New("系统通知不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

// ErrorCode 业务错误与返回码的对应关系
type ErrorCode struct {
	Err  error
	Code int
}

// ErrorCodes 按顺序匹配，一个错误包装了多个哨兵时取最先出现的
var ErrorCodes = []ErrorCode{
	{ErrParamInvalid, BadRequest},
	{ErrRatingTypeInvalid, BadRequest},
	{UnauthorizedError, Forbidden},
	{ErrUserInactive, Forbidden},
	{ErrUserNotFound, NotFound},
	{ErrOperationNotFound, NotFound},
	{ErrFavoriteListNotFound, NotFound},
	{ErrSysBoxNotFound, NotFound},
	{ErrConcurrentUpdate, Conflict},
	{UnExpectedError, InternalServerError},
}
