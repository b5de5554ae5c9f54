package verification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wyfcoding/videorating/internal/account/domain"
	"github.com/wyfcoding/videorating/pkg/cache"
)

const keyPrefix = "email_verification:"

// RedisStore 基于 Redis 的验证令牌存储
type RedisStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisStore 创建 Redis 令牌存储
func NewRedisStore(c *cache.RedisCache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, token string, v *domain.EmailVerification) error {
	return s.cache.SetJSON(ctx, keyPrefix+token, v, s.ttl)
}

// Take 原子地读取并删除令牌，保证并发验证时令牌只被消费一次
func (s *RedisStore) Take(ctx context.Context, token string) (*domain.EmailVerification, error) {
	raw, err := s.cache.GetDel(ctx, keyPrefix+token)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, domain.ErrVerificationNotFound
	}
	var v domain.EmailVerification
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type memoryEntry struct {
	value     domain.EmailVerification
	expiresAt time.Time
}

// MemoryStore 进程内令牌存储，供测试与本地环境使用
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryStore 创建进程内令牌存储
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl}
}

func (s *MemoryStore) Put(ctx context.Context, token string, v *domain.EmailVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{value: *v, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, token string) (*domain.EmailVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, token)
		return nil, domain.ErrVerificationNotFound
	}
	delete(s.entries, token)
	v := entry.value
	return &v, nil
}

var (
	_ domain.VerificationStore = (*RedisStore)(nil)
	_ domain.VerificationStore = (*MemoryStore)(nil)
)
