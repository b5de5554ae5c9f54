package domain

import (
	"context"
	"errors"
)

// ErrVerificationNotFound 验证令牌不存在或已过期
var ErrVerificationNotFound = errors.New("verification token not found or expired")

// EmailVerification 待验证的邮箱变更请求
type EmailVerification struct {
	UserID   uint   `json:"user_id"`
	NewEmail string `json:"new_email"`
}

// VerificationStore 验证令牌存储接口，令牌只能被消费一次
type VerificationStore interface {
	Put(ctx context.Context, token string, v *EmailVerification) error
	// Take 取出并删除令牌对应的记录
	Take(ctx context.Context, token string) (*EmailVerification, error)
}

// EmailSender 邮件发送接口
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
