package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AnalysisStatus is the visible lifecycle of the background analysis task.
// IsAnalyzed stays as the legacy completion flag; status distinguishes
// "still processing" from "failed for good".
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// CV is the stored metadata for one uploaded document. The file bytes live in
// object storage under StoragePath.
type CV struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         string          `bson:"userId" json:"userId"`
	StoragePath    string          `bson:"storagePath" json:"-"`
	OriginalName   string          `bson:"originalName" json:"originalName"`
	FileSize       int64           `bson:"fileSize" json:"fileSize"`
	FileType       string          `bson:"fileType" json:"fileType"`
	UploadDate     time.Time       `bson:"uploadDate" json:"uploadDate"`
	IsActive       bool            `bson:"isActive" json:"isActive"`
	IsAnalyzed     bool            `bson:"isAnalyzed" json:"isAnalyzed"`
	AnalysisStatus AnalysisStatus  `bson:"analysisStatus" json:"analysisStatus"`
	AnalysisResult *AnalysisResult `bson:"analysisResult,omitempty" json:"analysisResult,omitempty"`
}

// HasAnalysis reports whether the analysis endpoint may serve a result.
// The completion flag alone is not enough: a failed run also flips it and
// may leave a partial result holding nothing but the failure date.
func (c *CV) HasAnalysis() bool {
	return c.IsAnalyzed && c.AnalysisResult != nil && c.AnalysisStatus != AnalysisFailed
}

// AnalysisResult is the analyzer's structured feedback. The analyzer is an
// external collaborator; fields beyond the ones the roadmap needs are carried
// verbatim.
type AnalysisResult struct {
	Score         int           `bson:"score,omitempty" json:"score,omitempty"`
	Summary       string        `bson:"summary,omitempty" json:"summary,omitempty"`
	Strengths     []string      `bson:"strengths,omitempty" json:"strengths,omitempty"`
	Improvements  []string      `bson:"improvements" json:"improvements"`
	AviationMatch AviationMatch `bson:"aviationMatch" json:"aviationMatch"`
	AnalysisDate  time.Time     `bson:"analysisDate" json:"analysisDate"`
}

type AviationMatch struct {
	Score       int      `bson:"score,omitempty" json:"score,omitempty"`
	Suggestions []string `bson:"suggestions" json:"suggestions"`
}

// RoadmapStep is one entry of the fixed four-step career plan.
type RoadmapStep struct {
	Step        int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Timeline    string   `json:"timeline"`
	Priority    string   `json:"priority"`
}
