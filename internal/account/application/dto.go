package application

import (
	"sort"
	"strings"

	"github.com/wyfcoding/videorating/internal/account/domain"
)

// ProfileDTO 当前用户的账户信息
type ProfileDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsTrusted bool   `json:"is_trusted"`
}

// EmailDomainDTO 邮箱域名及其信任状态
type EmailDomainDTO struct {
	Domain string `json:"domain"`
	Status string `json:"status"`
}

func toEmailDomainDTOs(domains []domain.EmailDomain) []EmailDomainDTO {
	out := make([]EmailDomainDTO, 0, len(domains))
	for _, d := range domains {
		out = append(out, EmailDomainDTO{Domain: d.Domain, Status: d.Status})
	}
	return out
}

// FieldErrors 按字段归集的校验错误
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[f], ", "))
	}
	return b.String()
}

func (e FieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// emailDomainOf 返回地址中以 @ 开头的域名部分，非法地址返回空串
func emailDomainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at:])
}
