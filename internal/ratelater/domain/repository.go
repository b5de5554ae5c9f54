package domain

import "context"

// VideoRateLaterRepository 待评视频仓储接口
type VideoRateLaterRepository interface {
	Create(ctx context.Context, entry *VideoRateLater) error
	GetByUserAndVideo(ctx context.Context, userID uint, videoID string) (*VideoRateLater, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]VideoRateLater, int64, error)
	DeleteByUserAndVideo(ctx context.Context, userID uint, videoID string) error
}
