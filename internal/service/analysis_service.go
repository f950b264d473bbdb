package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/MehdiBenameur/skyhire/internal/database/minio"
	"github.com/MehdiBenameur/skyhire/internal/events"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/repository"
)

var (
	analysisOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_analysis_outcomes_total",
			Help: "Total number of finished CV analysis tasks",
		},
		[]string{"outcome"}, // outcome: completed/failed/retried
	)

	analysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cv_analysis_duration_seconds",
			Help:    "Time spent running one CV analysis",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Analyzer is the external routine that inspects a stored document and
// returns structured feedback. Treated as an opaque collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, storagePath, userID string) (*models.AnalysisResult, error)
}

// AnalysisService consumes analysis tasks off the work queue and writes the
// outcome back onto the CV record.
type AnalysisService struct {
	cvRepo         *repository.CVRepository
	analyzer       Analyzer
	eventPublisher events.Publisher
}

func NewAnalysisService(cvRepo *repository.CVRepository, analyzer Analyzer, eventPublisher events.Publisher) *AnalysisService {
	return &AnalysisService{
		cvRepo:         cvRepo,
		analyzer:       analyzer,
		eventPublisher: eventPublisher,
	}
}

// Process runs one task. Returning an error asks the consumer for a
// redelivery; redeliveries of already-completed work are absorbed here, which
// is what makes at-least-once delivery safe.
func (s *AnalysisService) Process(ctx context.Context, task *events.AnalysisTask) error {
	cvID, err := bson.ObjectIDFromHex(task.CVID)
	if err != nil {
		log.Printf("Dropping analysis task with malformed CV id %q", task.CVID)
		return nil
	}

	cv, err := s.cvRepo.FindByID(ctx, cvID)
	if err != nil {
		return fmt.Errorf("error loading CV %s: %w", task.CVID, err)
	}
	if cv == nil || !cv.IsActive {
		log.Printf("CV %s is gone, dropping analysis task", task.CVID)
		return nil
	}
	if cv.AnalysisStatus == models.AnalysisCompleted {
		return nil
	}

	if task.Attempt > 0 {
		analysisOutcomes.WithLabelValues("retried").Inc()
	}

	if err := s.cvRepo.SetAnalysisStatus(ctx, cvID, models.AnalysisProcessing); err != nil {
		return fmt.Errorf("error marking CV %s as processing: %w", task.CVID, err)
	}

	started := time.Now()
	result, err := s.analyzer.Analyze(ctx, task.StoragePath, task.UserID)
	analysisDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return fmt.Errorf("analyzer failed for CV %s: %w", task.CVID, err)
	}
	result.AnalysisDate = time.Now()

	if err := s.cvRepo.MarkAnalyzed(ctx, cvID, result); err != nil {
		return fmt.Errorf("error storing analysis for CV %s: %w", task.CVID, err)
	}

	analysisOutcomes.WithLabelValues("completed").Inc()
	log.Printf("CV analysis completed for CV: %s", task.CVID)

	if err := s.eventPublisher.PublishCVAnalyzed(ctx, task.CVID, task.UserID, string(models.AnalysisCompleted)); err != nil {
		log.Printf("Warning: Failed to publish CV analyzed event: %v", err)
	}
	return nil
}

// Abandon records a terminal failure once retries are exhausted. The CV
// stays; only the analysis date is stamped, so the record is visibly done
// without a usable result.
func (s *AnalysisService) Abandon(ctx context.Context, task *events.AnalysisTask) {
	cvID, err := bson.ObjectIDFromHex(task.CVID)
	if err != nil {
		return
	}

	if err := s.cvRepo.MarkAnalysisFailed(ctx, cvID); err != nil {
		log.Printf("Error marking CV %s analysis as failed: %v", task.CVID, err)
		return
	}

	analysisOutcomes.WithLabelValues("failed").Inc()
	log.Printf("CV analysis abandoned for CV %s after %d attempts", task.CVID, task.Attempt+1)

	if err := s.eventPublisher.PublishCVAnalyzed(ctx, task.CVID, task.UserID, string(models.AnalysisFailed)); err != nil {
		log.Printf("Warning: Failed to publish CV analyzed event: %v", err)
	}
}

// KeywordAnalyzer is the built-in analyzer: it scans the stored document for
// aviation vocabulary and derives improvement hints from what is missing.
// Swappable with a real analyzer behind the Analyzer interface.
type KeywordAnalyzer struct {
	fileStore *minio.Store
}

func NewKeywordAnalyzer(fileStore *minio.Store) *KeywordAnalyzer {
	return &KeywordAnalyzer{fileStore: fileStore}
}

var aviationVocabulary = []string{
	"pilot", "flight", "aircraft", "aviation", "maintenance",
	"easa", "faa", "atpl", "cpl", "type rating", "safety management",
	"crew resource management", "dispatch", "avionics",
}

var improvementHints = map[string]string{
	"easa":                     "Add your EASA licence details",
	"faa":                      "List FAA certificates you hold",
	"type rating":              "Mention aircraft type ratings",
	"safety management":        "Highlight safety management experience",
	"crew resource management": "Document CRM training",
}

func (a *KeywordAnalyzer) Analyze(ctx context.Context, storagePath, userID string) (*models.AnalysisResult, error) {
	object, err := a.fileStore.Get(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("error opening stored document: %w", err)
	}
	defer object.Close()

	// Reading raw bytes is enough for keyword presence; proper document
	// parsing belongs to an external analyzer. Capped at 1 MiB.
	raw, err := io.ReadAll(io.LimitReader(object, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("error reading stored document: %w", err)
	}
	textKW := extractKeywords(string(raw))

	var strengths, improvements, suggestions []string
	matched := 0
	for _, term := range aviationVocabulary {
		present := true
		for _, part := range extractTermParts(term) {
			if !textKW[part] {
				present = false
				break
			}
		}
		if present {
			matched++
			strengths = append(strengths, "Mentions "+term)
		} else if hint, ok := improvementHints[term]; ok {
			improvements = append(improvements, hint)
		}
	}

	score := matched * 100 / len(aviationVocabulary)
	suggestions = append(suggestions,
		"Obtain an industry-recognized aviation certification",
		"Complete recurrent training for your target role",
	)
	if improvements == nil {
		improvements = []string{"Quantify your achievements with flight hours or fleet sizes"}
	}

	return &models.AnalysisResult{
		Score:        score,
		Summary:      fmt.Sprintf("Document matches %d of %d aviation competency areas", matched, len(aviationVocabulary)),
		Strengths:    strengths,
		Improvements: improvements,
		AviationMatch: models.AviationMatch{
			Score:       score,
			Suggestions: suggestions,
		},
	}, nil
}

func extractTermParts(term string) []string {
	parts := []string{}
	for kw := range extractKeywords(term) {
		parts = append(parts, kw)
	}
	return parts
}
