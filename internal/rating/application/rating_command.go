package application

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/videorating/internal/rating/domain"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
)

// CreateRatingCommand 创建评分命令
type CreateRatingCommand struct {
	UserID   uint
	VideoID  string
	IsPublic bool
}

// UpdateVisibilityCommand 更新单条评分可见性命令
type UpdateVisibilityCommand struct {
	UserID   uint
	VideoID  string
	IsPublic bool
}

// RatingCommandService 评分命令服务
type RatingCommandService struct {
	repo      domain.ContributorRatingRepository
	videoRepo videodomain.VideoRepository
	publisher domain.EventPublisher
}

// NewRatingCommandService 创建评分命令服务实例
func NewRatingCommandService(
	repo domain.ContributorRatingRepository,
	videoRepo videodomain.VideoRepository,
	publisher domain.EventPublisher,
) *RatingCommandService {
	return &RatingCommandService{
		repo:      repo,
		videoRepo: videoRepo,
		publisher: publisher,
	}
}

// Create 为当前用户初始化某一视频的评分记录。
// 视频不存在或记录已存在时返回校验错误；并发重复创建由唯一索引兜底。
func (s *RatingCommandService) Create(ctx context.Context, cmd CreateRatingCommand) (*RatingDTO, error) {
	video, err := s.videoRepo.GetByVideoID(ctx, cmd.VideoID)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, domain.ErrUnknownVideo
		}
		return nil, err
	}

	rating := &domain.ContributorRating{
		UserID:   cmd.UserID,
		VideoID:  video.ID,
		IsPublic: cmd.IsPublic,
	}
	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, err
	}
	rating.Video = *video

	event := domain.RatingCreatedEvent{
		UserID:    cmd.UserID,
		VideoID:   video.VideoID,
		IsPublic:  cmd.IsPublic,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.PublishRatingCreated(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish rating created event", "error", err)
	}

	dto := toRatingDTO(rating)
	return &dto, nil
}

// UpdateVisibility 更新当前用户对某一视频评分的公开状态
func (s *RatingCommandService) UpdateVisibility(ctx context.Context, cmd UpdateVisibilityCommand) (*RatingDTO, error) {
	rating, err := s.repo.GetByUserAndVideo(ctx, cmd.UserID, cmd.VideoID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateIsPublic(ctx, rating.ID, cmd.IsPublic); err != nil {
		return nil, err
	}
	rating.IsPublic = cmd.IsPublic

	event := domain.RatingVisibilityChangedEvent{
		UserID:    cmd.UserID,
		VideoID:   cmd.VideoID,
		IsPublic:  cmd.IsPublic,
		ChangedAt: time.Now(),
	}
	if err := s.publisher.PublishRatingVisibilityChanged(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish rating visibility changed event", "error", err)
	}

	dto := toRatingDTO(rating)
	return &dto, nil
}

// UpdateAllVisibility 将当前用户的全部评分置为公开或私有。
// 单条 UPDATE 完成，无评分时也视为成功。
func (s *RatingCommandService) UpdateAllVisibility(ctx context.Context, userID uint, isPublic bool) error {
	if err := s.repo.UpdateAllIsPublic(ctx, userID, isPublic); err != nil {
		return err
	}

	event := domain.RatingVisibilityChangedEvent{
		UserID:    userID,
		IsPublic:  isPublic,
		Bulk:      true,
		ChangedAt: time.Now(),
	}
	if err := s.publisher.PublishRatingVisibilityChanged(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish rating visibility changed event", "error", err)
	}
	return nil
}
