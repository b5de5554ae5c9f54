package application

import "github.com/wyfcoding/videorating/internal/comparison/domain"

// VideoDTO 比较响应中的视频表示
type VideoDTO struct {
	VideoID string `json:"video_id"`
	Name    string `json:"name,omitempty"`
}

// CriteriaScoreDTO 单一准则打分表示
type CriteriaScoreDTO struct {
	Criteria string  `json:"criteria"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
}

// ComparisonDTO 比较记录表示
type ComparisonDTO struct {
	Video1         VideoDTO           `json:"video_a"`
	Video2         VideoDTO           `json:"video_b"`
	DurationMS     float64            `json:"duration_ms"`
	CriteriaScores []CriteriaScoreDTO `json:"criteria_scores"`
}

func toComparisonDTO(c *domain.Comparison) ComparisonDTO {
	scores := make([]CriteriaScoreDTO, 0, len(c.CriteriaScores))
	for _, cs := range c.CriteriaScores {
		scores = append(scores, CriteriaScoreDTO{
			Criteria: cs.Criteria,
			Score:    cs.Score,
			Weight:   cs.Weight,
		})
	}

	return ComparisonDTO{
		Video1:         VideoDTO{VideoID: c.Video1.VideoID, Name: c.Video1.Name},
		Video2:         VideoDTO{VideoID: c.Video2.VideoID, Name: c.Video2.Name},
		DurationMS:     c.DurationMS,
		CriteriaScores: scores,
	}
}

func toComparisonDTOs(comparisons []domain.Comparison) []ComparisonDTO {
	dtos := make([]ComparisonDTO, 0, len(comparisons))
	for i := range comparisons {
		dtos = append(dtos, toComparisonDTO(&comparisons[i]))
	}
	return dtos
}
