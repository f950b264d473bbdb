package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/MehdiBenameur/skyhire/internal/apperrors"
	"github.com/MehdiBenameur/skyhire/internal/database/minio"
	"github.com/MehdiBenameur/skyhire/internal/events"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/repository"
)

var allowedCVTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type CVService struct {
	cvRepo         *repository.CVRepository
	fileStore      *minio.Store
	eventPublisher events.Publisher
	maxFileSize    int64
}

func NewCVService(cvRepo *repository.CVRepository, fileStore *minio.Store, eventPublisher events.Publisher, maxFileSize int64) *CVService {
	return &CVService{
		cvRepo:         cvRepo,
		fileStore:      fileStore,
		eventPublisher: eventPublisher,
		maxFileSize:    maxFileSize,
	}
}

// Upload validates and stores the file, creates the CV record and enqueues
// the analysis task. The caller gets the record back immediately; analysis
// completion is observed by polling.
func (s *CVService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, userID string) (*models.CV, error) {
	if fileHeader.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: file size too large, maximum %d bytes allowed", apperrors.ErrValidation, s.maxFileSize)
	}

	fileExt := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedCVTypes[fileExt] {
		return nil, fmt.Errorf("%w: unsupported file type %s", apperrors.ErrValidation, fileExt)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Checksum is computed while streaming; the timestamped object name keeps
	// re-uploads of the same filename from overwriting each other.
	hash := md5.New()
	objectName := fmt.Sprintf("%s/%d-%s", userID, time.Now().UnixNano(), filepath.Base(fileHeader.Filename))

	if _, err := s.fileStore.Upload(ctx, objectName, io.TeeReader(file, hash), fileHeader.Size, contentType); err != nil {
		return nil, fmt.Errorf("error uploading file to object storage: %w", err)
	}
	checksum := hex.EncodeToString(hash.Sum(nil))
	log.Printf("CV file stored: %s (md5 %s)", objectName, checksum)

	cv := &models.CV{
		UserID:         userID,
		StoragePath:    objectName,
		OriginalName:   fileHeader.Filename,
		FileSize:       fileHeader.Size,
		FileType:       fileExt,
		UploadDate:     time.Now(),
		IsActive:       true,
		IsAnalyzed:     false,
		AnalysisStatus: models.AnalysisPending,
	}

	created, err := s.cvRepo.Create(ctx, cv)
	if err != nil {
		// No orphaned files: the stored object goes before the error
		// surfaces.
		if delErr := s.fileStore.Delete(ctx, objectName); delErr != nil {
			log.Printf("Warning: Failed to clean up object %s after record failure: %v", objectName, delErr)
		}
		return nil, fmt.Errorf("error creating CV record: %w", err)
	}

	task := &events.AnalysisTask{
		CVID:        created.ID.Hex(),
		UserID:      userID,
		StoragePath: objectName,
	}
	if err := s.eventPublisher.EnqueueAnalysis(ctx, task); err != nil {
		log.Printf("Warning: Failed to enqueue analysis for CV %s: %v", created.ID.Hex(), err)
	}
	if err := s.eventPublisher.PublishCVUploaded(ctx, created.ID.Hex(), userID, created.OriginalName); err != nil {
		log.Printf("Warning: Failed to publish CV uploaded event: %v", err)
	}

	return created, nil
}

func (s *CVService) ListOwned(ctx context.Context, userID string) ([]*models.CV, error) {
	return s.cvRepo.ListActiveByOwner(ctx, userID)
}

func (s *CVService) GetOwned(ctx context.Context, id, userID string) (*models.CV, error) {
	cv, err := s.cvRepo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if cv == nil {
		return nil, apperrors.ErrNotFound
	}
	return cv, nil
}

// GetAnalysis returns the analysis result, or not-found while the task is
// still pending, has failed, or left no usable result behind.
func (s *CVService) GetAnalysis(ctx context.Context, id, userID string) (*models.AnalysisResult, error) {
	cv, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !cv.HasAnalysis() {
		return nil, apperrors.ErrNotFound
	}
	return cv.AnalysisResult, nil
}

func (s *CVService) GetRoadmap(ctx context.Context, id, userID string) ([]models.RoadmapStep, error) {
	cv, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !cv.HasAnalysis() {
		return nil, apperrors.ErrNotFound
	}
	return BuildRoadmap(cv.AnalysisResult)
}

// Delete removes the stored file and soft-deletes the record. Both steps
// always run and a missing file counts as success, so a half-deleted CV can
// be deleted again.
func (s *CVService) Delete(ctx context.Context, id, userID string) error {
	cv, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.fileStore.Delete(ctx, cv.StoragePath); err != nil {
		log.Printf("Warning: Failed to delete object %s, continuing with soft delete: %v", cv.StoragePath, err)
	}

	if err := s.cvRepo.SoftDelete(ctx, cv.ID); err != nil {
		return fmt.Errorf("error soft-deleting CV: %w", err)
	}

	if err := s.eventPublisher.PublishCVDeleted(ctx, cv.ID.Hex(), userID); err != nil {
		log.Printf("Warning: Failed to publish CV deleted event: %v", err)
	}
	return nil
}
