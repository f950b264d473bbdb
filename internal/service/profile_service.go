package service

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/MehdiBenameur/skyhire/internal/apperrors"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/repository"
)

type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// EnsureProfile materializes the default profile for a user on first sight.
// The auth guard stays side-effect free; handlers that need a profile call
// this explicitly. Safe to call on every request: the upsert writes at most
// once per user.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error looking up profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}
	return s.profileRepo.Upsert(ctx, models.NewDefaultProfile(userID))
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

// GetPublicByUserID serves the unauthenticated profile view and counts it.
func (s *ProfileService) GetPublicByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.IncrementStat(ctx, userID, "profileViews", 1); err != nil {
		log.Printf("Warning: Failed to count profile view for user %s: %v", userID, err)
	}
	return profile.PublicView(), nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, update *models.ProfileUpdate) (*models.UserProfile, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Headline != nil {
		set["headline"] = *update.Headline
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	if update.Languages != nil {
		set["languages"] = *update.Languages
	}
	if update.SocialLinks != nil {
		set["socialLinks"] = update.SocialLinks
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields in request", apperrors.ErrValidation)
	}

	profile, err := s.profileRepo.Update(ctx, userID, set)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (s *ProfileService) AddSkill(ctx context.Context, userID string, skill models.Skill) (*models.UserProfile, error) {
	if skill.Name == "" {
		return nil, fmt.Errorf("%w: skill name is required", apperrors.ErrValidation)
	}
	skill.ID = bson.NewObjectID()

	profile, err := s.profileRepo.AddSkill(ctx, userID, skill)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (s *ProfileService) RemoveSkill(ctx context.Context, userID, skillID string) (*models.UserProfile, error) {
	objectID, err := bson.ObjectIDFromHex(skillID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed skill id", apperrors.ErrValidation)
	}

	profile, err := s.profileRepo.RemoveSkill(ctx, userID, objectID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (s *ProfileService) Stats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &profile.Stats, nil
}

type ProfileSearchResult struct {
	Profiles    []*models.UserProfile `json:"profiles"`
	TotalCount  int64                 `json:"totalCount"`
	CurrentPage int                   `json:"currentPage"`
}

func (s *ProfileService) Search(ctx context.Context, query string, page, pageSize int) (*ProfileSearchResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	profiles, count, err := s.profileRepo.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, err
	}

	public := make([]*models.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		public = append(public, p.PublicView())
	}

	return &ProfileSearchResult{
		Profiles:    public,
		TotalCount:  count,
		CurrentPage: page,
	}, nil
}
