package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/video/domain"
	"gorm.io/gorm"
)

type videoRepository struct{ db *gorm.DB }

// NewVideoRepository 创建视频仓储实例
func NewVideoRepository(db *gorm.DB) domain.VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	err := r.db.WithContext(ctx).Create(video).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *videoRepository) GetByVideoID(ctx context.Context, videoID string) (*domain.Video, error) {
	var video domain.Video
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]domain.Video, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Video{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []domain.Video
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}
