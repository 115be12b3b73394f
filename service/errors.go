package service

import (
	"errors"
	"fmt"
)

// 业务错误，由 api 层映射为 HTTP 状态码
// 全部在任何写操作之前返回，保证失败时无半成品状态
var (
	// 状态冲突
	ErrNotRecruiting  = errors.New("不是招募中的挑战")
	ErrAlreadyStarted = errors.New("挑战已经开始")
	ErrNotInProgress  = errors.New("只有进行中的挑战才能登记消费")
	ErrAlreadyFailed  = errors.New("该参与者已经挑战失败")
	ErrInviteHandled  = errors.New("邀请已被处理")

	// 容量/重复冲突
	ErrCapacityExceeded   = errors.New("已达到最大参与人数")
	ErrAlreadyJoined      = errors.New("已经参与该挑战")
	ErrAlreadyInvited     = errors.New("已经邀请过该用户")
	ErrAlreadyParticipant = errors.New("对方已经是挑战参与者")

	// 权限
	ErrNotCreator   = errors.New("只有挑战创建者可以执行此操作")
	ErrNotInvitee   = errors.New("只有被邀请者可以处理该邀请")
	ErrNotInvited   = errors.New("私密挑战需要接受邀请后才能加入")
	ErrNotAFollower = errors.New("私密挑战只能邀请自己的粉丝")
	ErrSelfInvite   = errors.New("不能邀请自己")

	// 余额（仅手动快速录入的快速失败路径）
	ErrInsufficientBalance = errors.New("余额不足")

	// 不存在
	ErrChallengeNotFound   = errors.New("挑战不存在")
	ErrParticipantNotFound = errors.New("未参与该挑战")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrCategoryNotFound    = errors.New("用户消费偏好不存在")
	ErrInviteNotFound      = errors.New("邀请不存在")

	// 外部服务
	ErrOCRService = errors.New("OCR 服务异常")
)

// ValidationError 消费明细校验错误，指明出错的是第几条
type ValidationError struct {
	Index   int // 明细下标，从 0 开始
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("第 %d 条消费明细无效: %s", e.Index+1, e.Message)
}

func newValidationError(index int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Index: index, Message: fmt.Sprintf(format, args...)}
}
