package api

import (
	"errors"

	"challengobi/service"

	"github.com/gin-gonic/gin"
)

// serviceError 把 service 层的哨兵错误翻译成 HTTP 响应
// 状态冲突和名额冲突 409，权限 403，参数和余额 400，未找到 404，OCR 上游 502
func serviceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		BadRequest(c, verr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrInviteNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotCreator),
		errors.Is(err, service.ErrNotInvitee),
		errors.Is(err, service.ErrNotInvited),
		errors.Is(err, service.ErrNotAFollower):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotRecruiting),
		errors.Is(err, service.ErrAlreadyStarted),
		errors.Is(err, service.ErrNotInProgress),
		errors.Is(err, service.ErrAlreadyFailed),
		errors.Is(err, service.ErrInviteHandled),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrAlreadyInvited),
		errors.Is(err, service.ErrAlreadyParticipant):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrSelfInvite):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrOCRService):
		BadGateway(c, SafeErrorMessage(err, "票据识别服务暂时不可用"))
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
