package events

import (
	"math/rand"
	"time"
)

type EventType string

const (
	// CV events
	EventTypeCVUploaded EventType = "cv.uploaded"
	EventTypeCVAnalyzed EventType = "cv.analyzed"
	EventTypeCVDeleted  EventType = "cv.deleted"

	// Job events
	EventTypeJobCreated EventType = "job.created"
	EventTypeJobApplied EventType = "job.applied"

	// User events
	EventTypeUserRegistered EventType = "user.registered"
)

// BaseEvent represents the common fields for all events
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

// CVEvent represents an event in a CV's lifecycle
type CVEvent struct {
	BaseEvent
	CVID         string `json:"cvId"`
	OwnerID      string `json:"ownerId"`
	OriginalName string `json:"originalName,omitempty"`
	Status       string `json:"status,omitempty"`
}

// JobEvent represents a job posting or application event
type JobEvent struct {
	BaseEvent
	JobID       string `json:"jobId"`
	ActorID     string `json:"actorId"`
	ApplicantID string `json:"applicantId,omitempty"`
}

// UserEvent represents an account lifecycle event
type UserEvent struct {
	BaseEvent
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// AnalysisTask is the work-queue message that drives one analyzer run.
// Attempt counts deliveries so retries stay bounded.
type AnalysisTask struct {
	CVID        string `json:"cvId"`
	UserID      string `json:"userId"`
	StoragePath string `json:"storagePath"`
	Attempt     int    `json:"attempt"`
}

func newBaseEvent(t EventType) BaseEvent {
	return BaseEvent{
		ID:        generateEventID(),
		Type:      t,
		Timestamp: time.Now().Unix(),
		Version:   "1.0",
	}
}

func generateEventID() string {
	return time.Now().UTC().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
