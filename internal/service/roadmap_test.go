package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MehdiBenameur/skyhire/internal/apperrors"
	"github.com/MehdiBenameur/skyhire/internal/models"
)

func sampleAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		Score:        72,
		Summary:      "Solid aviation background",
		Strengths:    []string{"Type rating", "Safety record"},
		Improvements: []string{"Add flight hours", "List certifications", "Expand summary"},
		AviationMatch: models.AviationMatch{
			Score:       60,
			Suggestions: []string{"Obtain ATPL", "Get instrument rating", "Join a flying club"},
		},
	}
}

func TestBuildRoadmapShape(t *testing.T) {
	steps, err := BuildRoadmap(sampleAnalysis())
	if err != nil {
		t.Fatalf("BuildRoadmap returned error: %v", err)
	}

	if len(steps) != 4 {
		t.Fatalf("Expected 4 roadmap steps, got %d", len(steps))
	}

	for i, step := range steps {
		if step.Step != i+1 {
			t.Errorf("Step %d has number %d", i, step.Step)
		}
		if step.Title == "" || step.Timeline == "" || step.Priority == "" {
			t.Errorf("Step %d has empty fields: %+v", step.Step, step)
		}
		if len(step.Actions) == 0 {
			t.Errorf("Step %d has no actions", step.Step)
		}
	}

	wantStep1 := []string{"Add flight hours", "List certifications"}
	if !reflect.DeepEqual(steps[0].Actions, wantStep1) {
		t.Errorf("Step 1 actions = %v, want %v", steps[0].Actions, wantStep1)
	}

	wantStep2 := []string{"Obtain ATPL", "Get instrument rating"}
	if !reflect.DeepEqual(steps[1].Actions, wantStep2) {
		t.Errorf("Step 2 actions = %v, want %v", steps[1].Actions, wantStep2)
	}

	if steps[0].Priority != "high" || steps[3].Priority != "low" {
		t.Errorf("Unexpected priorities: first=%s last=%s", steps[0].Priority, steps[3].Priority)
	}
}

func TestBuildRoadmapDeterministic(t *testing.T) {
	first, err := BuildRoadmap(sampleAnalysis())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := BuildRoadmap(sampleAnalysis())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Roadmap is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildRoadmapTruncatesActions(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.Improvements = []string{"Only one"}
	analysis.AviationMatch.Suggestions = []string{}

	steps, err := BuildRoadmap(analysis)
	if err != nil {
		t.Fatalf("BuildRoadmap returned error: %v", err)
	}

	if len(steps[0].Actions) != 1 || steps[0].Actions[0] != "Only one" {
		t.Errorf("Step 1 actions = %v, want [Only one]", steps[0].Actions)
	}
	if len(steps[1].Actions) != 0 {
		t.Errorf("Step 2 actions = %v, want empty", steps[1].Actions)
	}
}

func TestBuildRoadmapRejectsMalformedAnalysis(t *testing.T) {
	testCases := []struct {
		name     string
		analysis *models.AnalysisResult
	}{
		{"nil analysis", nil},
		{"missing improvements", &models.AnalysisResult{
			AviationMatch: models.AviationMatch{Suggestions: []string{"x"}},
		}},
		{"missing suggestions", &models.AnalysisResult{
			Improvements: []string{"x"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildRoadmap(tc.analysis)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, apperrors.ErrInvalidAnalysisShape) {
				t.Errorf("Expected ErrInvalidAnalysisShape, got %v", err)
			}
		})
	}
}

func TestBuildRoadmapCopiesActions(t *testing.T) {
	analysis := sampleAnalysis()
	steps, err := BuildRoadmap(analysis)
	if err != nil {
		t.Fatalf("BuildRoadmap returned error: %v", err)
	}

	steps[0].Actions[0] = "mutated"
	if analysis.Improvements[0] != "Add flight hours" {
		t.Errorf("Mutating roadmap actions leaked into the analysis: %v", analysis.Improvements)
	}
}
