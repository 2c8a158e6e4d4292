package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrRecordNotFound  = errors.New("record not found")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrAIDisabled      = errors.New("ai service not configured")
	ErrAIEmptyResponse = errors.New("ai returned no choices")
)
