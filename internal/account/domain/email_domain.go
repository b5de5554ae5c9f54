package domain

import "gorm.io/gorm"

// 邮箱域名信任状态
const (
	DomainStatusAccepted = "ACK" // 已信任
	DomainStatusRejected = "RJ"  // 已拒绝
	DomainStatusPending  = "PD"  // 待审核
)

// EmailDomain 邮箱域名及其信任状态，域名以 @ 开头
type EmailDomain struct {
	gorm.Model
	Domain string `gorm:"type:varchar(255);uniqueIndex;not null" json:"domain"`
	Status string `gorm:"type:varchar(3);not null;default:PD" json:"status"`
}

// TableName 指定表名
func (EmailDomain) TableName() string {
	return "email_domains"
}
