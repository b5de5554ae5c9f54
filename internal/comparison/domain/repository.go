package domain

import "context"

// ComparisonRepository 比较记录仓储接口
type ComparisonRepository interface {
	Create(ctx context.Context, comparison *Comparison) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]Comparison, int64, error)
	ListByUserAndVideo(ctx context.Context, userID, videoID uint, limit, offset int) ([]Comparison, int64, error)
	GetByUserAndPair(ctx context.Context, userID, video1ID, video2ID uint) (*Comparison, error)
}
