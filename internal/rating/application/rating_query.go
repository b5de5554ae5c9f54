package application

import (
	"context"

	"github.com/wyfcoding/videorating/internal/rating/domain"
)

// ListRatingsQuery 评分列表查询
type ListRatingsQuery struct {
	UserID   uint
	IsPublic *bool
	Limit    int
	Offset   int
}

// RatingQueryService 评分查询服务
type RatingQueryService struct {
	repo domain.ContributorRatingRepository
}

// NewRatingQueryService 创建评分查询服务实例
func NewRatingQueryService(repo domain.ContributorRatingRepository) *RatingQueryService {
	return &RatingQueryService{repo: repo}
}

// List 分页列出用户的评分，只含比较数大于零的记录，按创建先后倒序
func (s *RatingQueryService) List(ctx context.Context, q ListRatingsQuery) ([]RatingDTO, int64, error) {
	ratings, total, err := s.repo.ListByUser(ctx, q.UserID, domain.ListFilter{
		IsPublic: q.IsPublic,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return toRatingDTOs(ratings), total, nil
}

// Get 获取用户对某一视频的评分；不做比较数过滤，占位评分可直接取到
func (s *RatingQueryService) Get(ctx context.Context, userID uint, videoID string) (*RatingDTO, error) {
	rating, err := s.repo.GetByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	dto := toRatingDTO(rating)
	return &dto, nil
}
