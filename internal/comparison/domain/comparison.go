package domain

import (
	"errors"

	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 比较记录不存在
	ErrNotFound = errors.New("comparison not found")
	// ErrAlreadyExists 同一用户对同一有序视频对已有比较记录
	ErrAlreadyExists = errors.New("comparison already exists for this video pair")
)

// Comparison 一个用户对一对视频的单次成对判断
type Comparison struct {
	gorm.Model
	UserID   uint `gorm:"column:user_id;uniqueIndex:idx_comparison_user_pair;index;not null"`
	Video1ID uint `gorm:"column:video_1_id;uniqueIndex:idx_comparison_user_pair;not null"`
	Video2ID uint `gorm:"column:video_2_id;uniqueIndex:idx_comparison_user_pair;not null"`
	// 比较耗时（毫秒），用于贡献统计
	DurationMS float64 `gorm:"column:duration_ms"`

	Video1         videodomain.Video         `gorm:"foreignKey:Video1ID"`
	Video2         videodomain.Video         `gorm:"foreignKey:Video2ID"`
	CriteriaScores []ComparisonCriteriaScore `gorm:"foreignKey:ComparisonID"`
}

// TableName 指定表名
func (Comparison) TableName() string { return "comparisons" }

// ComparisonCriteriaScore 成对判断中单一准则的打分
type ComparisonCriteriaScore struct {
	gorm.Model
	ComparisonID uint    `gorm:"column:comparison_id;index;not null"`
	Criteria     string  `gorm:"column:criteria;type:varchar(32);not null"`
	Score        float64 `gorm:"column:score;not null"`
	Weight       float64 `gorm:"column:weight;default:1"`
}

// TableName 指定表名
func (ComparisonCriteriaScore) TableName() string { return "comparison_criteria_scores" }
