package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/comparison/domain"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
)

// ComparisonQueryService 比较查询服务
type ComparisonQueryService struct {
	repo      domain.ComparisonRepository
	videoRepo videodomain.VideoRepository
}

// NewComparisonQueryService 创建比较查询服务实例
func NewComparisonQueryService(repo domain.ComparisonRepository, videoRepo videodomain.VideoRepository) *ComparisonQueryService {
	return &ComparisonQueryService{repo: repo, videoRepo: videoRepo}
}

// ListByUser 分页列出用户的所有比较记录
func (s *ComparisonQueryService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]ComparisonDTO, int64, error) {
	comparisons, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return toComparisonDTOs(comparisons), total, nil
}

// ListByUserAndVideo 分页列出用户涉及某一视频的比较记录
func (s *ComparisonQueryService) ListByUserAndVideo(ctx context.Context, userID uint, videoID string, limit, offset int) ([]ComparisonDTO, int64, error) {
	video, err := s.videoRepo.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, err
	}

	comparisons, total, err := s.repo.ListByUserAndVideo(ctx, userID, video.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return toComparisonDTOs(comparisons), total, nil
}

// GetByUserAndPair 获取用户对某一有序视频对的比较记录
func (s *ComparisonQueryService) GetByUserAndPair(ctx context.Context, userID uint, videoA, videoB string) (*ComparisonDTO, error) {
	video1, err := s.videoRepo.GetByVideoID(ctx, videoA)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	video2, err := s.videoRepo.GetByVideoID(ctx, videoB)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	comparison, err := s.repo.GetByUserAndPair(ctx, userID, video1.ID, video2.ID)
	if err != nil {
		return nil, err
	}

	dto := toComparisonDTO(comparison)
	return &dto, nil
}
