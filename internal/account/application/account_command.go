package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/videorating/internal/account/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials 用户名或密码错误
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	minPasswordLength = 8
	// bcrypt 仅使用前 72 字节，超长密码直接拒绝
	maxPasswordLength = 72
)

// 用户名保留字，与路由中的当前用户占位冲突
var reservedUsernames = map[string]bool{"me": true}

// RegisterCommand 注册新用户
type RegisterCommand struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// AccountCommandService 账户写操作服务
type AccountCommandService struct {
	users     domain.UserRepository
	domains   domain.EmailDomainRepository
	store     domain.VerificationStore
	sender    domain.EmailSender
	publisher domain.EventPublisher
	baseURL   string
}

// NewAccountCommandService 创建账户写操作服务实例
func NewAccountCommandService(
	users domain.UserRepository,
	domains domain.EmailDomainRepository,
	store domain.VerificationStore,
	sender domain.EmailSender,
	publisher domain.EventPublisher,
	baseURL string,
) *AccountCommandService {
	return &AccountCommandService{
		users:     users,
		domains:   domains,
		store:     store,
		sender:    sender,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// Register 校验并创建新用户，同时登记其邮箱域名
func (s *AccountCommandService) Register(ctx context.Context, cmd RegisterCommand) (*ProfileDTO, error) {
	fieldErrs := FieldErrors{}

	if cmd.Username == "" {
		fieldErrs.add("username", "this field is required")
	} else if reservedUsernames[cmd.Username] {
		fieldErrs.add("username", fmt.Sprintf("the username '%s' is reserved", cmd.Username))
	} else if _, err := s.users.GetByUsername(ctx, cmd.Username); err == nil {
		fieldErrs.add("username", domain.ErrUsernameTaken.Error())
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if cmd.Email == "" {
		fieldErrs.add("email", "this field is required")
	} else if _, err := mail.ParseAddress(cmd.Email); err != nil {
		fieldErrs.add("email", "enter a valid email address")
	} else if _, err := s.users.GetByEmail(ctx, cmd.Email); err == nil {
		fieldErrs.add("email", domain.ErrEmailTaken.Error())
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if len(cmd.Password) < minPasswordLength {
		fieldErrs.add("password", fmt.Sprintf("password must contain at least %d characters", minPasswordLength))
	} else if len(cmd.Password) > maxPasswordLength {
		fieldErrs.add("password", fmt.Sprintf("password must contain at most %d characters", maxPasswordLength))
	}
	if cmd.Password != cmd.PasswordConfirm {
		fieldErrs.add("password_confirm", "password fields didn't match")
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	ed, err := s.domains.GetOrCreate(ctx, emailDomainOf(cmd.Email))
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishUserRegistered(ctx, &domain.UserRegisteredEvent{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		logger.Warn(ctx, "Failed to publish user registered event", "user_id", user.ID, "error", err)
	}

	return &ProfileDTO{
		Username:  user.Username,
		Email:     user.Email,
		IsTrusted: ed.Status == domain.DomainStatusAccepted,
	}, nil
}

// Login 校验用户名与密码，返回通过认证的用户
func (s *AccountCommandService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequestEmailChange 生成一次性令牌并向新邮箱发送验证链接
func (s *AccountCommandService) RequestEmailChange(ctx context.Context, userID uint, newEmail string) error {
	fieldErrs := FieldErrors{}
	if newEmail == "" {
		fieldErrs.add("email", "this field is required")
	} else if _, err := mail.ParseAddress(newEmail); err != nil {
		fieldErrs.add("email", "enter a valid email address")
	} else if other, err := s.users.GetByEmail(ctx, newEmail); err == nil && other.ID != userID {
		fieldErrs.add("email", domain.ErrEmailTaken.Error())
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	token := uuid.NewString()
	if err := s.store.Put(ctx, token, &domain.EmailVerification{
		UserID:   userID,
		NewEmail: newEmail,
	}); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/accounts/verify-email/?verification_key=%s", s.baseURL, token)
	body := fmt.Sprintf("Please click the following link to verify your new email address:\n\n%s\n", link)
	if err := s.sender.Send(ctx, newEmail, "Verify your email address", body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerifyEmail 消费令牌并更新用户邮箱，同时登记新域名
func (s *AccountCommandService) VerifyEmail(ctx context.Context, token string) error {
	v, err := s.store.Take(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, v.UserID)
	if err != nil {
		return err
	}
	oldEmail := user.Email

	if err := s.users.UpdateEmail(ctx, v.UserID, v.NewEmail); err != nil {
		return err
	}
	if _, err := s.domains.GetOrCreate(ctx, emailDomainOf(v.NewEmail)); err != nil {
		return err
	}

	if err := s.publisher.PublishEmailChanged(ctx, &domain.EmailChangedEvent{
		UserID:    v.UserID,
		OldEmail:  oldEmail,
		NewEmail:  v.NewEmail,
		ChangedAt: time.Now(),
	}); err != nil {
		logger.Warn(ctx, "Failed to publish email changed event", "user_id", v.UserID, "error", err)
	}
	return nil
}

// DeleteAccount 删除用户及其全部评分与比较数据
func (s *AccountCommandService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.DeleteByID(ctx, userID); err != nil {
		return err
	}

	if err := s.publisher.PublishUserDeleted(ctx, &domain.UserDeletedEvent{
		UserID:    user.ID,
		Username:  user.Username,
		DeletedAt: time.Now(),
	}); err != nil {
		logger.Warn(ctx, "Failed to publish user deleted event", "user_id", user.ID, "error", err)
	}
	return nil
}
