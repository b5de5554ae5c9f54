package domain

import (
	"errors"

	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 当前用户对该视频没有评分记录
	ErrNotFound = errors.New("contributor rating not found")
	// ErrAlreadyExists 当前用户对该视频已有评分记录
	ErrAlreadyExists = errors.New("contributor rating already exists for this video")
	// ErrUnknownVideo 引用的视频不存在
	ErrUnknownVideo = errors.New("referenced video does not exist")
)

// ContributorRating 一个用户对单一视频的评分记录与可见性设置。
// NComparisons 不落库，由查询时按该用户的比较记录计数得出。
type ContributorRating struct {
	gorm.Model
	UserID   uint `gorm:"column:user_id;uniqueIndex:idx_rating_user_video;index;not null"`
	VideoID  uint `gorm:"column:video_id;uniqueIndex:idx_rating_user_video;not null"`
	IsPublic bool `gorm:"column:is_public;default:false;not null"`

	// 查询时由比较计数子查询填充，仅统计同一用户的比较
	NComparisons int64 `gorm:"column:n_comparisons;->;-:migration"`

	Video          videodomain.Video               `gorm:"belongsTo;foreignKey:VideoID;references:ID"`
	CriteriaScores []ContributorRatingCriteriaScore `gorm:"foreignKey:ContributorRatingID"`
}

// TableName 指定表名
func (ContributorRating) TableName() string { return "contributor_ratings" }

// ContributorRatingCriteriaScore 评分记录中单一准则的得分与不确定度
type ContributorRatingCriteriaScore struct {
	gorm.Model
	ContributorRatingID uint    `gorm:"column:contributor_rating_id;index;not null"`
	Criteria            string  `gorm:"column:criteria;type:varchar(32);not null"`
	Score               float64 `gorm:"column:score;not null"`
	Uncertainty         float64 `gorm:"column:uncertainty;not null"`
}

// TableName 指定表名
func (ContributorRatingCriteriaScore) TableName() string { return "contributor_rating_criteria_scores" }
