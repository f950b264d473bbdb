package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ApplicationStatus is deliberately an unconstrained enum: an authorized
// recruiter may move an application between any two statuses. Only membership
// is validated.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusAccepted    ApplicationStatus = "accepted"
)

func IsValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// JobApplication links a job and an applicant.
type JobApplication struct {
	ID             bson.ObjectID        `bson:"_id,omitempty" json:"id,omitempty"`
	JobID          bson.ObjectID        `bson:"jobId" json:"jobId"`
	UserID         string               `bson:"userId" json:"userId"`
	Status         ApplicationStatus    `bson:"status" json:"status"`
	CoverLetter    string               `bson:"coverLetter,omitempty" json:"coverLetter,omitempty"`
	MatchScore     float64              `bson:"matchScore,omitempty" json:"matchScore,omitempty"`
	Communications []CommunicationEntry `bson:"communications" json:"communications"`
	AppliedAt      time.Time            `bson:"appliedAt" json:"appliedAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CommunicationEntry is one message in an application's communication log.
type CommunicationEntry struct {
	From    string    `bson:"from" json:"from"`
	Message string    `bson:"message" json:"message"`
	SentAt  time.Time `bson:"sentAt" json:"sentAt"`
}

// JobSeekerStats is the aggregate returned by GET /jobs/user/stats.
type JobSeekerStats struct {
	TotalApplications int            `json:"totalApplications"`
	SavedJobs         int            `json:"savedJobs"`
	ByStatus          map[string]int `json:"byStatus"`
}
