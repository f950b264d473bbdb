package service

import (
	"testing"

	"github.com/MehdiBenameur/skyhire/internal/models"
)

func TestExtractKeywords(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		want    []string
		exclude []string
	}{
		{
			name: "lowercases and splits",
			text: "Commercial Pilot License",
			want: []string{"commercial", "pilot", "license"},
		},
		{
			name:    "drops short words and stop words",
			text:    "the pilot and crew at LAX",
			want:    []string{"pilot", "crew", "lax"},
			exclude: []string{"the", "and", "at"},
		},
		{
			name: "keeps alphanumeric aircraft types",
			text: "Rated on A320 and B737",
			want: []string{"a320", "b737", "rated"},
		},
		{
			name: "trims trailing periods",
			text: "Experienced dispatcher.",
			want: []string{"experienced", "dispatcher"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kw := extractKeywords(tc.text)
			for _, w := range tc.want {
				if !kw[w] {
					t.Errorf("Expected keyword %q in %v", w, kw)
				}
			}
			for _, w := range tc.exclude {
				if kw[w] {
					t.Errorf("Did not expect keyword %q in %v", w, kw)
				}
			}
		})
	}
}

func TestScoreJobMatch(t *testing.T) {
	profile := &models.UserProfile{
		Headline: "Commercial airline pilot",
		Bio:      "A320 type rated with 3000 flight hours",
		Skills: []models.Skill{
			{Name: "Navigation"},
			{Name: "Crew resource management"},
			{Name: "Flight operations"},
		},
	}
	candidateKW := CandidateKeywords(profile)

	// The category tokenizes into "flight" and "operations", both of which
	// the profile must also carry for the sets to be identical.

	perfect := &models.Job{
		Title:          "Commercial airline pilot",
		Category:       "flight-operations",
		Description:    "A320 type rated with 3000 flight hours",
		RequiredSkills: []string{"Navigation", "Crew resource management"},
	}
	if score := ScoreJobMatch(candidateKW, perfect); score != 100 {
		t.Errorf("Identical keyword sets should score 100, got %v", score)
	}

	unrelated := &models.Job{
		Title:       "Baker",
		Category:    "catering",
		Description: "Sourdough bread production",
	}
	if score := ScoreJobMatch(candidateKW, unrelated); score != 0 {
		t.Errorf("Disjoint keyword sets should score 0, got %v", score)
	}

	partial := &models.Job{
		Title:       "First officer",
		Category:    "flight-operations",
		Description: "A320 pilot position",
	}
	score := ScoreJobMatch(candidateKW, partial)
	if score <= 0 || score >= 100 {
		t.Errorf("Partial overlap should score strictly between 0 and 100, got %v", score)
	}
	// One decimal place of precision.
	if score*10 != float64(int(score*10)) {
		t.Errorf("Score should be rounded to one decimal, got %v", score)
	}
}

func TestScoreJobMatchEmptyInputs(t *testing.T) {
	empty := map[string]bool{}
	if score := ScoreJobMatch(empty, &models.Job{}); score != 0 {
		t.Errorf("Empty inputs should score 0, got %v", score)
	}
}
