package core

import (
	"time"
)

// Status is the lifecycle stage of a job application
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// ValidStatus reports whether s is one of the four recognized stages
func ValidStatus(s Status) bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Placeholder values a failed field extraction falls back to. They carry
// no confidence credit.
const (
	PlaceholderCompany = "Unknown Company"
	PlaceholderRole    = "Not specified"
)

// EmailMessage is a normalized mailbox message. The mailbox adapter has
// already decoded transport encodings; Body is plain text.
type EmailMessage struct {
	ID      string
	From    string
	Subject string
	Body    string
	Date    string
}

// ExtractionResult is the validated output of the extraction oracle
type ExtractionResult struct {
	IsJobEmail bool
	Company    string
	JobTitle   string
	Status     Status
	Location   string
}

// Application is a structured job application record derived from a
// single source message
type Application struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Company         string  `json:"company"`
	Role            string  `json:"role"`
	Location        string  `json:"location"`
	DateApplied     string  `json:"dateApplied"`
	LastUpdate      string  `json:"lastUpdate"`
	CreatedAt       string  `json:"createdAt"`
	Status          Status  `json:"status"`
	Source          string  `json:"source"`
	Salary          *string `json:"salary"`
	RemotePolicy    *string `json:"remotePolicy"`
	Notes           string  `json:"notes"`
	EmailID         string  `json:"emailId"`
	ConfidenceScore int     `json:"confidenceScore"`
	IsDuplicate     int     `json:"isDuplicate"`
}

// DuplicateVerdict is the outcome of an exact natural-key duplicate check.
// It is computed per query and never persisted.
type DuplicateVerdict struct {
	IsDuplicate bool
	DuplicateID string
	Similarity  float64
	Reason      string
}

// SimilarApplication pairs an existing application with its similarity
// to a candidate
type SimilarApplication struct {
	Application *Application
	Similarity  float64
}

// CacheStats describes the extraction cache occupancy
type CacheStats struct {
	Size    int
	MaxSize int
}

// SyncStats are the aggregate counts reported for one mailbox sync
type SyncStats struct {
	RunID             string
	MessagesSeen      int
	Extracted         int
	DuplicatesSkipped int
	Failures          int
	StartedAt         time.Time
	FinishedAt        time.Time
}
