package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/rating/domain"
	"gorm.io/gorm"
)

// nComparisonsExpr 统计与评分同一用户、视频出现在任一侧的比较数。
// 其他用户对同一视频的比较不计入。
const nComparisonsExpr = `(SELECT COUNT(*) FROM comparisons` +
	` WHERE comparisons.user_id = contributor_ratings.user_id` +
	` AND (comparisons.video_1_id = contributor_ratings.video_id` +
	` OR comparisons.video_2_id = contributor_ratings.video_id)` +
	` AND comparisons.deleted_at IS NULL)`

type contributorRatingRepository struct{ db *gorm.DB }

// NewContributorRatingRepository 创建评分仓储实例
func NewContributorRatingRepository(db *gorm.DB) domain.ContributorRatingRepository {
	return &contributorRatingRepository{db: db}
}

func (r *contributorRatingRepository) Create(ctx context.Context, rating *domain.ContributorRating) error {
	err := r.db.WithContext(ctx).Create(rating).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *contributorRatingRepository) GetByUserAndVideo(ctx context.Context, userID uint, videoID string) (*domain.ContributorRating, error) {
	var rating domain.ContributorRating
	err := r.db.WithContext(ctx).
		Model(&domain.ContributorRating{}).
		Select("contributor_ratings.*, "+nComparisonsExpr+" AS n_comparisons").
		Joins("JOIN videos ON videos.id = contributor_ratings.video_id AND videos.deleted_at IS NULL").
		Where("contributor_ratings.user_id = ? AND videos.video_id = ?", userID, videoID).
		Preload("Video").
		Preload("CriteriaScores").
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *contributorRatingRepository) ListByUser(ctx context.Context, userID uint, filter domain.ListFilter) ([]domain.ContributorRating, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&domain.ContributorRating{}).
			Where("contributor_ratings.user_id = ?", userID).
			Where(nComparisonsExpr + " > 0")
		if filter.IsPublic != nil {
			q = q.Where("contributor_ratings.is_public = ?", *filter.IsPublic)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []domain.ContributorRating
	err := base().
		Select("contributor_ratings.*, " + nComparisonsExpr + " AS n_comparisons").
		Preload("Video").
		Preload("CriteriaScores").
		Order("contributor_ratings.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func (r *contributorRatingRepository) UpdateIsPublic(ctx context.Context, ratingID uint, isPublic bool) error {
	// MySQL 在值未变化时报告零行受影响，存在性由调用方先行确认
	return r.db.WithContext(ctx).
		Model(&domain.ContributorRating{}).
		Where("id = ?", ratingID).
		Update("is_public", isPublic).Error
}

func (r *contributorRatingRepository) UpdateAllIsPublic(ctx context.Context, userID uint, isPublic bool) error {
	// 单条 UPDATE 语句，依赖存储层事务保证整体原子性
	return r.db.WithContext(ctx).
		Model(&domain.ContributorRating{}).
		Where("user_id = ?", userID).
		Update("is_public", isPublic).Error
}
