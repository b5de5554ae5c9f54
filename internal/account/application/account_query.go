package application

import (
	"context"
	"errors"

	"github.com/wyfcoding/videorating/internal/account/domain"
)

// AccountQueryService 账户读操作服务
type AccountQueryService struct {
	users   domain.UserRepository
	domains domain.EmailDomainRepository
}

// NewAccountQueryService 创建账户读操作服务实例
func NewAccountQueryService(users domain.UserRepository, domains domain.EmailDomainRepository) *AccountQueryService {
	return &AccountQueryService{users: users, domains: domains}
}

// Profile 返回用户信息及其邮箱域名是否受信任
func (s *AccountQueryService) Profile(ctx context.Context, userID uint) (*ProfileDTO, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	trusted := false
	if name := emailDomainOf(user.Email); name != "" {
		ed, err := s.domains.GetByDomain(ctx, name)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		trusted = err == nil && ed.Status == domain.DomainStatusAccepted
	}

	return &ProfileDTO{
		Username:  user.Username,
		Email:     user.Email,
		IsTrusted: trusted,
	}, nil
}

// ListDomains 分页列出指定信任状态的邮箱域名
func (s *AccountQueryService) ListDomains(ctx context.Context, status string, limit, offset int) ([]EmailDomainDTO, int64, error) {
	domains, total, err := s.domains.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return toEmailDomainDTOs(domains), total, nil
}
