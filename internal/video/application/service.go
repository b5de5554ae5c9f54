package application

import (
	"context"
	"errors"
	"strings"

	"github.com/wyfcoding/videorating/internal/video/domain"
)

// ErrInvalidVideoID 视频标识格式非法
var ErrInvalidVideoID = errors.New("video_id must be a non-empty identifier of at most 20 characters")

// CreateVideoCommand 创建视频命令
type CreateVideoCommand struct {
	VideoID  string
	Name     string
	Uploader string
}

// VideoService 视频目录应用服务
type VideoService struct {
	repo domain.VideoRepository
}

// NewVideoService 创建视频应用服务实例
func NewVideoService(repo domain.VideoRepository) *VideoService {
	return &VideoService{repo: repo}
}

// Create 登记一个新视频
func (s *VideoService) Create(ctx context.Context, cmd CreateVideoCommand) (*domain.Video, error) {
	videoID := strings.TrimSpace(cmd.VideoID)
	if videoID == "" || len(videoID) > 20 {
		return nil, ErrInvalidVideoID
	}

	video := &domain.Video{
		VideoID:  videoID,
		Name:     cmd.Name,
		Uploader: cmd.Uploader,
	}
	if err := s.repo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Get 按外部标识获取视频
func (s *VideoService) Get(ctx context.Context, videoID string) (*domain.Video, error) {
	return s.repo.GetByVideoID(ctx, videoID)
}

// List 分页列出视频
func (s *VideoService) List(ctx context.Context, limit, offset int) ([]domain.Video, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
