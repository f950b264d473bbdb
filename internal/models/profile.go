package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserProfile is the public-facing profile, created lazily the first time a
// handler needs one for an authenticated user.
type UserProfile struct {
	ID          bson.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string            `bson:"userId" json:"userId"`
	Name        string            `bson:"name,omitempty" json:"name,omitempty"`
	Email       string            `bson:"email,omitempty" json:"email,omitempty"`
	Headline    string            `bson:"headline" json:"headline"`
	Bio         string            `bson:"bio" json:"bio"`
	Location    string            `bson:"location,omitempty" json:"location,omitempty"`
	Phone       string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Website     string            `bson:"website,omitempty" json:"website,omitempty"`
	Languages   []string          `bson:"languages" json:"languages"`
	Skills      []Skill           `bson:"skills" json:"skills"`
	SocialLinks map[string]string `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	Stats       ProfileStats      `bson:"stats" json:"stats"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt" json:"updatedAt"`
}

type Skill struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string        `bson:"name" json:"name"`
	Level    string        `bson:"level,omitempty" json:"level,omitempty"`
	Category string        `bson:"category,omitempty" json:"category,omitempty"`
}

type ProfileStats struct {
	ProfileViews    int       `bson:"profileViews" json:"profileViews"`
	ConnectionCount int       `bson:"connectionCount" json:"connectionCount"`
	JobApplications int       `bson:"jobApplications" json:"jobApplications"`
	InterviewCount  int       `bson:"interviewCount" json:"interviewCount"`
	LastActive      time.Time `bson:"lastActive" json:"lastActive"`
}

// NewDefaultProfile builds the profile created on first sight of a user.
func NewDefaultProfile(userID string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:    userID,
		Headline:  "Aviation Professional",
		Bio:       "Welcome to my SkyHire profile!",
		Languages: []string{},
		Skills:    []Skill{},
		Stats: ProfileStats{
			LastActive: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProfileUpdate carries the mutable profile fields for PUT /users/profile.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Name        *string           `json:"name,omitempty"`
	Headline    *string           `json:"headline,omitempty"`
	Bio         *string           `json:"bio,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Website     *string           `json:"website,omitempty"`
	Languages   *[]string         `json:"languages,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
}

// PublicView strips contact details for the unauthenticated profile endpoints.
func (p *UserProfile) PublicView() *UserProfile {
	public := *p
	public.Email = ""
	public.Phone = ""
	public.SocialLinks = nil
	return &public
}
