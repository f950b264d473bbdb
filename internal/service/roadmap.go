package service

import (
	"fmt"

	"github.com/MehdiBenameur/skyhire/internal/apperrors"
	"github.com/MehdiBenameur/skyhire/internal/models"
)

// BuildRoadmap derives the fixed four-step career plan from a completed
// analysis. Pure and deterministic: the same analysis always yields an
// identical plan. A result missing its improvements or aviation suggestions
// arrays is rejected rather than crashed on.
func BuildRoadmap(analysis *models.AnalysisResult) ([]models.RoadmapStep, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: analysis result is nil", apperrors.ErrInvalidAnalysisShape)
	}
	if analysis.Improvements == nil {
		return nil, fmt.Errorf("%w: improvements array is missing", apperrors.ErrInvalidAnalysisShape)
	}
	if analysis.AviationMatch.Suggestions == nil {
		return nil, fmt.Errorf("%w: aviation suggestions array is missing", apperrors.ErrInvalidAnalysisShape)
	}

	return []models.RoadmapStep{
		{
			Step:        1,
			Title:       "Improve Core Skills",
			Description: "Focus on developing key aviation competencies",
			Actions:     firstN(analysis.Improvements, 2),
			Timeline:    "1-3 months",
			Priority:    "high",
		},
		{
			Step:        2,
			Title:       "Obtain Certifications",
			Description: "Acquire industry-recognized certifications",
			Actions:     firstN(analysis.AviationMatch.Suggestions, 2),
			Timeline:    "3-6 months",
			Priority:    "medium",
		},
		{
			Step:        3,
			Title:       "Gain Practical Experience",
			Description: "Build hands-on experience in aviation roles",
			Actions:     []string{"Apply for entry-level positions", "Network with professionals", "Attend industry events"},
			Timeline:    "6-12 months",
			Priority:    "medium",
		},
		{
			Step:        4,
			Title:       "Career Advancement",
			Description: "Progress to senior aviation roles",
			Actions:     []string{"Apply for senior positions", "Mentor junior staff", "Continue professional development"},
			Timeline:    "1-2 years",
			Priority:    "low",
		},
	}, nil
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out
}
