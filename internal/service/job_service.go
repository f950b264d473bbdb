package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/MehdiBenameur/skyhire/internal/apperrors"
	"github.com/MehdiBenameur/skyhire/internal/config"
	"github.com/MehdiBenameur/skyhire/internal/events"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/repository"
)

const (
	categoriesCacheKey    = "skyhire-job-categories"
	matchingCachePrefix   = "skyhire-matching-"
	matchingCacheDuration = 5 * time.Minute
)

type JobService struct {
	jobRepo        *repository.JobRepository
	appRepo        *repository.ApplicationRepository
	savedRepo      *repository.SavedJobRepository
	profileService *ProfileService
	redisRepo      *repository.RedisRepo
	eventPublisher events.Publisher
	applyPolicy    config.ApplyPolicy
	categoryTTL    time.Duration
}

func NewJobService(
	jobRepo *repository.JobRepository,
	appRepo *repository.ApplicationRepository,
	savedRepo *repository.SavedJobRepository,
	profileService *ProfileService,
	redisRepo *repository.RedisRepo,
	eventPublisher events.Publisher,
	jobsCfg *config.JobsConfig,
) *JobService {
	return &JobService{
		jobRepo:        jobRepo,
		appRepo:        appRepo,
		savedRepo:      savedRepo,
		profileService: profileService,
		redisRepo:      redisRepo,
		eventPublisher: eventPublisher,
		applyPolicy:    jobsCfg.ApplyPolicy,
		categoryTTL:    jobsCfg.CategoryCache,
	}
}

type JobListResult struct {
	Jobs        []*models.Job `json:"jobs"`
	TotalCount  int64         `json:"totalCount"`
	CurrentPage int           `json:"currentPage"`
}

func (s *JobService) List(ctx context.Context, filter repository.JobFilter) (*JobListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 50 {
		filter.PageSize = 20
	}

	jobs, count, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &JobListResult{Jobs: jobs, TotalCount: count, CurrentPage: filter.Page}, nil
}

// Get serves the public job detail and counts the view.
func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := s.jobRepo.IncrementStat(ctx, job.ID, "views", 1); err != nil {
		log.Printf("Warning: Failed to count view for job %s: %v", id, err)
	}
	return job, nil
}

func (s *JobService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if hit, err := s.redisRepo.GetStructCached(ctx, categoriesCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	categories, err := s.jobRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}

	if err := s.redisRepo.SaveStructCached(ctx, categoriesCacheKey, categories, s.categoryTTL); err != nil {
		log.Printf("Warning: Failed to cache job categories: %s", err)
	}
	return categories, nil
}

func validateJobInput(input *models.JobInput) error {
	if input.Company == "" || input.Title == "" || input.Location == "" || input.Category == "" {
		return fmt.Errorf("%w: company, title, location and category are required", apperrors.ErrValidation)
	}
	if input.Salary.Min < 0 || (input.Salary.Max > 0 && input.Salary.Max < input.Salary.Min) {
		return fmt.Errorf("%w: salary range is inverted", apperrors.ErrValidation)
	}
	return nil
}

func (s *JobService) Create(ctx context.Context, recruiterID string, input *models.JobInput) (*models.Job, error) {
	if err := validateJobInput(input); err != nil {
		return nil, err
	}

	job := &models.Job{
		RecruiterID:    recruiterID,
		Company:        input.Company,
		Title:          input.Title,
		Description:    input.Description,
		Location:       input.Location,
		Category:       input.Category,
		Salary:         input.Salary,
		RequiredSkills: input.RequiredSkills,
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}

	created, err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	s.redisRepo.Delete(ctx, categoriesCacheKey)
	if err := s.eventPublisher.PublishJobCreated(ctx, created.ID.Hex(), recruiterID); err != nil {
		log.Printf("Warning: Failed to publish job created event: %v", err)
	}
	return created, nil
}

// ownedJob loads a job and enforces that the actor owns it or is an admin.
// Job postings are public, so there is nothing to hide: a recruiter touching
// someone else's posting gets forbidden, not not-found.
func (s *JobService) ownedJob(ctx context.Context, jobID, actorID, role string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperrors.ErrNotFound
	}
	if role != models.RoleAdmin && job.RecruiterID != actorID {
		return nil, apperrors.ErrForbidden
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, jobID, actorID, role string, input *models.JobInput) (*models.Job, error) {
	if err := validateJobInput(input); err != nil {
		return nil, err
	}

	job, err := s.ownedJob(ctx, jobID, actorID, role)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"company":        input.Company,
		"title":          input.Title,
		"description":    input.Description,
		"location":       input.Location,
		"category":       input.Category,
		"salary":         input.Salary,
		"requiredSkills": input.RequiredSkills,
	}

	updated, err := s.jobRepo.Update(ctx, job.ID, set)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.ErrNotFound
	}

	s.redisRepo.Delete(ctx, categoriesCacheKey)
	return updated, nil
}

func (s *JobService) Delete(ctx context.Context, jobID, actorID, role string) error {
	job, err := s.ownedJob(ctx, jobID, actorID, role)
	if err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, job.ID); err != nil {
		return err
	}
	s.redisRepo.Delete(ctx, categoriesCacheKey)
	return nil
}

// Apply creates (or, depending on policy, refreshes) an application. The
// duplicate-apply behavior is configurable: allow duplicates, reject them,
// or refresh the existing application.
func (s *JobService) Apply(ctx context.Context, jobID, userID, coverLetter string) (*models.JobApplication, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperrors.ErrNotFound
	}

	profile, err := s.profileService.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	matchScore := ScoreJobMatch(CandidateKeywords(profile), job)

	if s.applyPolicy != config.ApplyPolicyAllow {
		existing, err := s.appRepo.FindByJobAndUser(ctx, job.ID, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if s.applyPolicy == config.ApplyPolicyReject {
				return nil, apperrors.ErrDuplicateApplication
			}
			return s.appRepo.Refresh(ctx, existing.ID, coverLetter, matchScore)
		}
	}

	app := &models.JobApplication{
		JobID:       job.ID,
		UserID:      userID,
		Status:      models.StatusPending,
		CoverLetter: coverLetter,
		MatchScore:  matchScore,
	}

	created, err := s.appRepo.Create(ctx, app)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.IncrementStat(ctx, job.ID, "applications", 1); err != nil {
		log.Printf("Warning: Failed to count application for job %s: %v", jobID, err)
	}
	if err := s.profileService.profileRepo.IncrementStat(ctx, userID, "jobApplications", 1); err != nil {
		log.Printf("Warning: Failed to bump applicant stats for user %s: %v", userID, err)
	}
	if err := s.eventPublisher.PublishJobApplied(ctx, job.ID.Hex(), userID); err != nil {
		log.Printf("Warning: Failed to publish job applied event: %v", err)
	}

	return created, nil
}

// ToggleSave bookmarks the job, or removes the bookmark on a second call.
func (s *JobService) ToggleSave(ctx context.Context, jobID, userID string) (bool, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, apperrors.ErrNotFound
	}

	saved, err := s.savedRepo.Toggle(ctx, userID, job.ID)
	if err != nil {
		return false, err
	}

	delta := 1
	if !saved {
		delta = -1
	}
	if err := s.jobRepo.IncrementStat(ctx, job.ID, "saves", delta); err != nil {
		log.Printf("Warning: Failed to count save for job %s: %v", jobID, err)
	}
	return saved, nil
}

// Matching scores every active posting against the caller's profile, best
// match first. Results sit in Redis briefly so repeated polling stays cheap.
func (s *JobService) Matching(ctx context.Context, userID string) ([]*models.MatchingJob, error) {
	cacheKey := matchingCachePrefix + userID
	var cached []*models.MatchingJob
	if hit, err := s.redisRepo.GetStructCached(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	profile, err := s.profileService.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	candidateKW := CandidateKeywords(profile)
	matches := make([]*models.MatchingJob, 0, len(jobs))
	for _, job := range jobs {
		matches = append(matches, &models.MatchingJob{
			Job:        job,
			MatchScore: ScoreJobMatch(candidateKW, job),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if err := s.redisRepo.SaveStructCached(ctx, cacheKey, matches, matchingCacheDuration); err != nil {
		log.Printf("Warning: Failed to cache matching jobs for user %s: %s", userID, err)
	}
	return matches, nil
}

func (s *JobService) ApplicationHistory(ctx context.Context, userID string) ([]*models.JobApplication, error) {
	return s.appRepo.ListByUser(ctx, userID)
}

func (s *JobService) ApplicationDetail(ctx context.Context, id, userID string) (*models.JobApplication, error) {
	app, err := s.appRepo.FindByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperrors.ErrNotFound
	}
	return app, nil
}

func (s *JobService) SeekerStats(ctx context.Context, userID string) (*models.JobSeekerStats, error) {
	byStatus, err := s.appRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	saved, err := s.savedRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	return &models.JobSeekerStats{
		TotalApplications: total,
		SavedJobs:         int(saved),
		ByStatus:          byStatus,
	}, nil
}

// UpdateApplicationStatus sets any of the five statuses; transitions are
// deliberately unconstrained, only membership is checked.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.JobApplication, error) {
	if !models.IsValidApplicationStatus(status) {
		return nil, fmt.Errorf("%w: unknown application status %q", apperrors.ErrValidation, status)
	}

	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperrors.ErrNotFound
	}

	updated, err := s.appRepo.UpdateStatus(ctx, app.ID, status)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.ErrNotFound
	}
	return updated, nil
}

func (s *JobService) AddCommunication(ctx context.Context, id, from, message string) (*models.JobApplication, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperrors.ErrValidation)
	}

	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperrors.ErrNotFound
	}

	entry := models.CommunicationEntry{
		From:    from,
		Message: message,
		SentAt:  time.Now(),
	}
	updated, err := s.appRepo.AddCommunication(ctx, app.ID, entry)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.ErrNotFound
	}
	return updated, nil
}
