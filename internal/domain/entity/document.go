package entity

import (
	"time"
)

const (
	DocumentStatusPending  = "pending"
	DocumentStatusApproved = "approved"
	DocumentStatusRejected = "rejected"
)

type Document struct {
	ID         string `json:"id" firestore:"id"`
	Name       string `json:"name" firestore:"name"`
	Type       string `json:"type" firestore:"type"`
	Status     string `json:"status" firestore:"status"`
	URL        string `json:"url,omitempty" firestore:"url,omitempty"`
	ObjectName string `json:"object_name" firestore:"objectName"`
	FileSize   int64  `json:"file_size" firestore:"fileSize"`
	UploaderID string `json:"uploader_id" firestore:"uploaderId"`

	// CertificateID links supporting documents to the certificate request
	// they back; empty for free-standing uploads.
	CertificateID string `json:"certificate_id,omitempty" firestore:"certificateId,omitempty"`
	ReviewNote    string `json:"review_note,omitempty" firestore:"reviewNote,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
