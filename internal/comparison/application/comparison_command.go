package application

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/videorating/internal/comparison/domain"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
)

var (
	// ErrSameVideo 不能将视频与其自身比较
	ErrSameVideo = errors.New("cannot compare a video with itself")
	// ErrUnknownVideo 引用的视频不存在
	ErrUnknownVideo = errors.New("referenced video does not exist")
	// ErrNoCriteriaScores 至少需要一个准则打分
	ErrNoCriteriaScores = errors.New("at least one criteria score is required")
	// ErrInvalidCriteria 准则名不能为空
	ErrInvalidCriteria = errors.New("criteria name must not be empty")
)

// CriteriaScoreInput 创建比较时的单一准则打分
type CriteriaScoreInput struct {
	Criteria string
	Score    float64
	Weight   float64
}

// CreateComparisonCommand 创建比较命令
type CreateComparisonCommand struct {
	UserID         uint
	VideoA         string
	VideoB         string
	DurationMS     float64
	CriteriaScores []CriteriaScoreInput
}

// ComparisonCommandService 比较命令服务
type ComparisonCommandService struct {
	repo      domain.ComparisonRepository
	videoRepo videodomain.VideoRepository
	publisher domain.EventPublisher
}

// NewComparisonCommandService 创建比较命令服务实例
func NewComparisonCommandService(
	repo domain.ComparisonRepository,
	videoRepo videodomain.VideoRepository,
	publisher domain.EventPublisher,
) *ComparisonCommandService {
	return &ComparisonCommandService{
		repo:      repo,
		videoRepo: videoRepo,
		publisher: publisher,
	}
}

// Create 创建一条比较记录
func (s *ComparisonCommandService) Create(ctx context.Context, cmd CreateComparisonCommand) (*ComparisonDTO, error) {
	if cmd.VideoA == cmd.VideoB {
		return nil, ErrSameVideo
	}
	if len(cmd.CriteriaScores) == 0 {
		return nil, ErrNoCriteriaScores
	}
	for _, cs := range cmd.CriteriaScores {
		if cs.Criteria == "" {
			return nil, ErrInvalidCriteria
		}
	}

	video1, err := s.videoRepo.GetByVideoID(ctx, cmd.VideoA)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, ErrUnknownVideo
		}
		return nil, err
	}
	video2, err := s.videoRepo.GetByVideoID(ctx, cmd.VideoB)
	if err != nil {
		if errors.Is(err, videodomain.ErrNotFound) {
			return nil, ErrUnknownVideo
		}
		return nil, err
	}

	comparison := &domain.Comparison{
		UserID:     cmd.UserID,
		Video1ID:   video1.ID,
		Video2ID:   video2.ID,
		DurationMS: cmd.DurationMS,
	}
	for _, cs := range cmd.CriteriaScores {
		weight := cs.Weight
		if weight == 0 {
			weight = 1
		}
		comparison.CriteriaScores = append(comparison.CriteriaScores, domain.ComparisonCriteriaScore{
			Criteria: cs.Criteria,
			Score:    cs.Score,
			Weight:   weight,
		})
	}

	if err := s.repo.Create(ctx, comparison); err != nil {
		return nil, err
	}
	comparison.Video1 = *video1
	comparison.Video2 = *video2

	event := domain.ComparisonCreatedEvent{
		UserID:    cmd.UserID,
		Video1:    video1.VideoID,
		Video2:    video2.VideoID,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.PublishComparisonCreated(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish comparison created event", "error", err)
	}

	dto := toComparisonDTO(comparison)
	return &dto, nil
}
