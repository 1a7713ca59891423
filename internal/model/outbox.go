package model

import "time"

const (
	EventProfileUpdated         = "profile.updated"
	EventProfileDeleted         = "profile.deleted"
	EventProfileImportRequested = "profile.import.requested"
	EventPostCreated            = "post.created"
)

type ImportStatus string

const (
	ImportPending   ImportStatus = "pending"
	ImportRunning   ImportStatus = "running"
	ImportSucceeded ImportStatus = "succeeded"
	ImportFailed    ImportStatus = "failed"
)

// ImportJob tracks one profile import request from enqueue to completion.
type ImportJob struct {
	ID         string       `json:"id"`
	ProfileID  string       `json:"profile_id"`
	SourceURL  string       `json:"source_url"`
	Status     ImportStatus `json:"status"`
	Attempts   int          `json:"attempts"`
	Error      string       `json:"error,omitempty"`
	Imported   int          `json:"imported"`
	CreatedAt  time.Time    `json:"created_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// ImportRequested is the payload of EventProfileImportRequested.
type ImportRequested struct {
	JobID     string `json:"job_id"`
	ProfileID string `json:"profile_id"`
	SourceURL string `json:"source_url"`
}
