package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/ratelater/domain"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
)

// VideoDTO 待评条目中的视频表示
type VideoDTO struct {
	VideoID string `json:"video_id"`
	Name    string `json:"name,omitempty"`
}

// RateLaterDTO 待评条目表示
type RateLaterDTO struct {
	Video VideoDTO `json:"video"`
}

func toRateLaterDTO(entry *domain.VideoRateLater) RateLaterDTO {
	return RateLaterDTO{
		Video: VideoDTO{VideoID: entry.Video.VideoID, Name: entry.Video.Name},
	}
}

// RateLaterService 待评视频应用服务
type RateLaterService struct {
	repo      domain.VideoRateLaterRepository
	videoRepo videodomain.VideoRepository
}

// NewRateLaterService 创建待评视频应用服务实例
func NewRateLaterService(repo domain.VideoRateLaterRepository, videoRepo videodomain.VideoRepository) *RateLaterService {
	return &RateLaterService{repo: repo, videoRepo: videoRepo}
}

// Add 将视频加入当前用户的待评列表。
// 视频不存在或已在列表中时返回校验错误；并发重复添加由唯一索引兜底。
func (s *RateLaterService) Add(ctx context.Context, userID uint, videoID string) (*RateLaterDTO, error) {
	video, err := s.videoRepo.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, domain.ErrUnknownVideo
		}
		return nil, err
	}

	entry := &domain.VideoRateLater{
		UserID:  userID,
		VideoID: video.ID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	entry.Video = *video

	dto := toRateLaterDTO(entry)
	return &dto, nil
}

// Get 获取当前用户待评列表中的某一视频
func (s *RateLaterService) Get(ctx context.Context, userID uint, videoID string) (*RateLaterDTO, error) {
	entry, err := s.repo.GetByUserAndVideo(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	dto := toRateLaterDTO(entry)
	return &dto, nil
}

// List 分页列出当前用户的待评视频
func (s *RateLaterService) List(ctx context.Context, userID uint, limit, offset int) ([]RateLaterDTO, int64, error) {
	entries, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]RateLaterDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, toRateLaterDTO(&entries[i]))
	}
	return dtos, total, nil
}

// Remove 将视频从当前用户的待评列表移除
func (s *RateLaterService) Remove(ctx context.Context, userID uint, videoID string) error {
	return s.repo.DeleteByUserAndVideo(ctx, userID, videoID)
}
