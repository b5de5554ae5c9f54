package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/ratelater/domain"
	"gorm.io/gorm"
)

type videoRateLaterRepository struct{ db *gorm.DB }

// NewVideoRateLaterRepository 创建待评视频仓储实例
func NewVideoRateLaterRepository(db *gorm.DB) domain.VideoRateLaterRepository {
	return &videoRateLaterRepository{db: db}
}

func (r *videoRateLaterRepository) Create(ctx context.Context, entry *domain.VideoRateLater) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *videoRateLaterRepository) GetByUserAndVideo(ctx context.Context, userID uint, videoID string) (*domain.VideoRateLater, error) {
	var entry domain.VideoRateLater
	err := r.db.WithContext(ctx).
		Joins("JOIN videos ON videos.id = video_rate_laters.video_id AND videos.deleted_at IS NULL").
		Where("video_rate_laters.user_id = ? AND videos.video_id = ?", userID, videoID).
		Preload("Video").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *videoRateLaterRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.VideoRateLater, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&domain.VideoRateLater{}).
			Where("video_rate_laters.user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.VideoRateLater
	err := base().
		Preload("Video").
		Order("video_rate_laters.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// DeleteByUserAndVideo 物理删除条目，软删除残留会触碰唯一索引导致无法重新加入
func (r *videoRateLaterRepository) DeleteByUserAndVideo(ctx context.Context, userID uint, videoID string) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND video_id IN (?)",
			userID,
			r.db.Table("videos").Select("id").Where("videos.video_id = ? AND videos.deleted_at IS NULL", videoID),
		).
		Delete(&domain.VideoRateLater{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
