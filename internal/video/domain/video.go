package domain

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 视频不存在
	ErrNotFound = errors.New("video not found")
	// ErrAlreadyExists 视频已存在
	ErrAlreadyExists = errors.New("video already exists")
)

// Video 视频目录条目，video_id 为外部平台的唯一标识
type Video struct {
	gorm.Model
	VideoID  string `gorm:"column:video_id;type:varchar(20);uniqueIndex;not null" json:"video_id"`
	Name     string `gorm:"column:name;type:varchar(255)" json:"name,omitempty"`
	Uploader string `gorm:"column:uploader;type:varchar(255)" json:"uploader,omitempty"`
}

// TableName 指定表名
func (Video) TableName() string { return "videos" }
