package domain

import "context"

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateEmail(ctx context.Context, id uint, email string) error
	// DeleteByID 删除用户及其全部评分与比较数据
	DeleteByID(ctx context.Context, id uint) error
}

// EmailDomainRepository 邮箱域名仓储接口
type EmailDomainRepository interface {
	// GetOrCreate 返回已有域名记录，不存在时以待审核状态创建
	GetOrCreate(ctx context.Context, domain string) (*EmailDomain, error)
	GetByDomain(ctx context.Context, domain string) (*EmailDomain, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]EmailDomain, int64, error)
	UpdateStatus(ctx context.Context, domain, status string) error
}
