package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Job is a posting owned by a recruiter or admin identity.
type Job struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RecruiterID    string        `bson:"recruiterId" json:"recruiterId"`
	Company        string        `bson:"company" json:"company"`
	Title          string        `bson:"title" json:"title"`
	Description    string        `bson:"description,omitempty" json:"description,omitempty"`
	Location       string        `bson:"location" json:"location"`
	Category       string        `bson:"category" json:"category"`
	Salary         SalaryRange   `bson:"salary" json:"salary"`
	RequiredSkills []string      `bson:"requiredSkills" json:"requiredSkills"`
	Stats          JobStats      `bson:"stats" json:"stats"`
	IsActive       bool          `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type SalaryRange struct {
	Min    int    `bson:"min" json:"min"`
	Max    int    `bson:"max" json:"max"`
	Period string `bson:"period,omitempty" json:"period,omitempty"`
}

type JobStats struct {
	Applications int `bson:"applications" json:"applications"`
	Views        int `bson:"views" json:"views"`
	Saves        int `bson:"saves" json:"saves"`
}

// JobInput carries the writable fields for create and update.
type JobInput struct {
	Company        string      `json:"company"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Location       string      `json:"location"`
	Category       string      `json:"category"`
	Salary         SalaryRange `json:"salary"`
	RequiredSkills []string    `json:"requiredSkills"`
}

// MatchingJob is a job paired with the caller's computed match score.
// Read-only from the client's perspective.
type MatchingJob struct {
	Job        *Job    `json:"job"`
	MatchScore float64 `json:"matchScore"`
}

// SavedJob records a candidate bookmarking a posting.
type SavedJob struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID  string        `bson:"userId" json:"userId"`
	JobID   bson.ObjectID `bson:"jobId" json:"jobId"`
	SavedAt time.Time     `bson:"savedAt" json:"savedAt"`
}
