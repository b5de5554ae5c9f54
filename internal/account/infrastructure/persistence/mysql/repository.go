package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/account/domain"
	comparisondomain "github.com/wyfcoding/videorating/internal/comparison/domain"
	ratelaterdomain "github.com/wyfcoding/videorating/internal/ratelater/domain"
	ratingdomain "github.com/wyfcoding/videorating/internal/rating/domain"
	pkgdb "github.com/wyfcoding/videorating/pkg/db"
	"gorm.io/gorm"
)

type userRepository struct{ db *gorm.DB }

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uint, email string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("email", email).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailTaken
	}
	return err
}

// DeleteByID 在单个事务中物理删除用户及其评分、比较与待评数据
func (r *userRepository) DeleteByID(ctx context.Context, id uint) error {
	return pkgdb.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var comparisonIDs []uint
		if err := tx.Model(&comparisondomain.Comparison{}).
			Unscoped().
			Where("user_id = ?", id).
			Pluck("id", &comparisonIDs).Error; err != nil {
			return err
		}
		if len(comparisonIDs) > 0 {
			if err := tx.Unscoped().
				Where("comparison_id IN ?", comparisonIDs).
				Delete(&comparisondomain.ComparisonCriteriaScore{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().
			Where("user_id = ?", id).
			Delete(&comparisondomain.Comparison{}).Error; err != nil {
			return err
		}

		var ratingIDs []uint
		if err := tx.Model(&ratingdomain.ContributorRating{}).
			Unscoped().
			Where("user_id = ?", id).
			Pluck("id", &ratingIDs).Error; err != nil {
			return err
		}
		if len(ratingIDs) > 0 {
			if err := tx.Unscoped().
				Where("contributor_rating_id IN ?", ratingIDs).
				Delete(&ratingdomain.ContributorRatingCriteriaScore{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().
			Where("user_id = ?", id).
			Delete(&ratingdomain.ContributorRating{}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().
			Where("user_id = ?", id).
			Delete(&ratelaterdomain.VideoRateLater{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&domain.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

type emailDomainRepository struct{ db *gorm.DB }

// NewEmailDomainRepository 创建邮箱域名仓储实例
func NewEmailDomainRepository(db *gorm.DB) domain.EmailDomainRepository {
	return &emailDomainRepository{db: db}
}

func (r *emailDomainRepository) GetOrCreate(ctx context.Context, name string) (*domain.EmailDomain, error) {
	var ed domain.EmailDomain
	err := r.db.WithContext(ctx).Where("domain = ?", name).First(&ed).Error
	if err == nil {
		return &ed, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ed = domain.EmailDomain{Domain: name, Status: domain.DomainStatusPending}
	err = r.db.WithContext(ctx).Create(&ed).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发注册同域名时另一请求抢先创建，读回即可
		err = r.db.WithContext(ctx).Where("domain = ?", name).First(&ed).Error
	}
	if err != nil {
		return nil, err
	}
	return &ed, nil
}

func (r *emailDomainRepository) GetByDomain(ctx context.Context, name string) (*domain.EmailDomain, error) {
	var ed domain.EmailDomain
	err := r.db.WithContext(ctx).Where("domain = ?", name).First(&ed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ed, nil
}

func (r *emailDomainRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]domain.EmailDomain, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.EmailDomain{}).Where("status = ?", status)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var domains []domain.EmailDomain
	err := base().
		Order("domain ASC").
		Limit(limit).
		Offset(offset).
		Find(&domains).Error
	if err != nil {
		return nil, 0, err
	}
	return domains, total, nil
}

func (r *emailDomainRepository) UpdateStatus(ctx context.Context, name, status string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.EmailDomain{}).
		Where("domain = ?", name).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
