package domain

import (
	"errors"

	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 当前用户的待评列表中没有该视频
	ErrNotFound = errors.New("video not found in rate-later list")
	// ErrAlreadyExists 该视频已在当前用户的待评列表中
	ErrAlreadyExists = errors.New("video already in rate-later list")
	// ErrUnknownVideo 引用的视频不存在
	ErrUnknownVideo = errors.New("referenced video does not exist")
)

// VideoRateLater 用户标记为稍后比较的视频
type VideoRateLater struct {
	gorm.Model
	UserID  uint `gorm:"column:user_id;uniqueIndex:idx_rate_later_user_video;index;not null"`
	VideoID uint `gorm:"column:video_id;uniqueIndex:idx_rate_later_user_video;not null"`

	Video videodomain.Video `gorm:"belongsTo;foreignKey:VideoID;references:ID"`
}

// TableName 指定表名
func (VideoRateLater) TableName() string { return "video_rate_laters" }
