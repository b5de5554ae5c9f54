package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/comparison/domain"
	"gorm.io/gorm"
)

type comparisonRepository struct{ db *gorm.DB }

// NewComparisonRepository 创建比较记录仓储实例
func NewComparisonRepository(db *gorm.DB) domain.ComparisonRepository {
	return &comparisonRepository{db: db}
}

func (r *comparisonRepository) Create(ctx context.Context, comparison *domain.Comparison) error {
	err := r.db.WithContext(ctx).Create(comparison).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *comparisonRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]domain.Comparison, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Comparison{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comparisons []domain.Comparison
	err := base().
		Preload("Video1").
		Preload("Video2").
		Preload("CriteriaScores").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comparisons).Error
	if err != nil {
		return nil, 0, err
	}
	return comparisons, total, nil
}

func (r *comparisonRepository) ListByUserAndVideo(ctx context.Context, userID, videoID uint, limit, offset int) ([]domain.Comparison, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Comparison{}).
			Where("user_id = ? AND (video_1_id = ? OR video_2_id = ?)", userID, videoID, videoID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comparisons []domain.Comparison
	err := base().
		Preload("Video1").
		Preload("Video2").
		Preload("CriteriaScores").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comparisons).Error
	if err != nil {
		return nil, 0, err
	}
	return comparisons, total, nil
}

func (r *comparisonRepository) GetByUserAndPair(ctx context.Context, userID, video1ID, video2ID uint) (*domain.Comparison, error) {
	var comparison domain.Comparison
	err := r.db.WithContext(ctx).
		Preload("Video1").
		Preload("Video2").
		Preload("CriteriaScores").
		Where("user_id = ? AND video_1_id = ? AND video_2_id = ?", userID, video1ID, video2ID).
		First(&comparison).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comparison, nil
}
