package entity

import (
	"time"
)

const (
	BackupStatusRunning   = "running"
	BackupStatusCompleted = "completed"
	BackupStatusFailed    = "failed"
)

type BackupRecord struct {
	ID            string   `json:"id" firestore:"id"`
	Collections   []string `json:"collections" firestore:"collections"`
	DocumentCount int      `json:"document_count" firestore:"documentCount"`
	Size          int64    `json:"size" firestore:"size"`
	DownloadURL   string   `json:"download_url,omitempty" firestore:"downloadURL,omitempty"`
	ObjectName    string   `json:"object_name,omitempty" firestore:"objectName,omitempty"`
	Status        string   `json:"status" firestore:"status"`
	Error         string   `json:"error,omitempty" firestore:"error,omitempty"`

	// Incremental backups only include documents updated after Since.
	Incremental bool      `json:"incremental" firestore:"incremental"`
	Since       time.Time `json:"since,omitempty" firestore:"since,omitempty"`

	CreatedBy   string    `json:"created_by" firestore:"createdBy"`
	StartedAt   time.Time `json:"started_at" firestore:"startedAt"`
	CompletedAt time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
}
