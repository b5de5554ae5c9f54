package domain

import "context"

// VideoRepository 视频仓储接口
type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	GetByVideoID(ctx context.Context, videoID string) (*Video, error)
	List(ctx context.Context, limit, offset int) ([]Video, int64, error)
}
