package application

import "github.com/wyfcoding/videorating/internal/rating/domain"

// VideoDTO 评分响应中的视频表示
type VideoDTO struct {
	VideoID string `json:"video_id"`
	Name    string `json:"name,omitempty"`
}

// CriteriaScoreDTO 单一准则得分表示
type CriteriaScoreDTO struct {
	Criteria    string  `json:"criteria"`
	Score       float64 `json:"score"`
	Uncertainty float64 `json:"uncertainty"`
}

// RatingDTO 评分记录表示
type RatingDTO struct {
	Video          VideoDTO           `json:"video"`
	IsPublic       bool               `json:"is_public"`
	NComparisons   int64              `json:"n_comparisons"`
	CriteriaScores []CriteriaScoreDTO `json:"criteria_scores"`
}

func toRatingDTO(rating *domain.ContributorRating) RatingDTO {
	scores := make([]CriteriaScoreDTO, 0, len(rating.CriteriaScores))
	for _, cs := range rating.CriteriaScores {
		scores = append(scores, CriteriaScoreDTO{
			Criteria:    cs.Criteria,
			Score:       cs.Score,
			Uncertainty: cs.Uncertainty,
		})
	}

	return RatingDTO{
		Video:          VideoDTO{VideoID: rating.Video.VideoID, Name: rating.Video.Name},
		IsPublic:       rating.IsPublic,
		NComparisons:   rating.NComparisons,
		CriteriaScores: scores,
	}
}

func toRatingDTOs(ratings []domain.ContributorRating) []RatingDTO {
	dtos := make([]RatingDTO, 0, len(ratings))
	for i := range ratings {
		dtos = append(dtos, toRatingDTO(&ratings[i]))
	}
	return dtos
}
