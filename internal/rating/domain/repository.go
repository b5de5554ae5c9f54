package domain

import "context"

// ListFilter 评分列表查询条件
type ListFilter struct {
	// 为 nil 时不过滤可见性
	IsPublic *bool
	Limit    int
	Offset   int
}

// ContributorRatingRepository 评分仓储接口。
// 读取方法都会附带 NComparisons 计数；列表只返回计数大于零的行，
// 单条查询不做该过滤（占位评分可按视频直接取到）。
type ContributorRatingRepository interface {
	Create(ctx context.Context, rating *ContributorRating) error
	GetByUserAndVideo(ctx context.Context, userID uint, videoID string) (*ContributorRating, error)
	ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]ContributorRating, int64, error)
	UpdateIsPublic(ctx context.Context, ratingID uint, isPublic bool) error
	UpdateAllIsPublic(ctx context.Context, userID uint, isPublic bool) error
}
