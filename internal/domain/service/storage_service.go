package service

import (
	"context"
	"io"
	"time"
)

type UploadResult struct {
	URL        string
	ObjectName string
	Size       int64
}

// FileStorage abstracts the Cloud Storage bucket used for uploaded
// documents, certificate QR images and backup blobs.
type FileStorage interface {
	Upload(ctx context.Context, file io.Reader, contentType, folder, filename string, public bool) (*UploadResult, error)
	UploadBytes(ctx context.Context, data []byte, contentType, objectName string, public bool) (*UploadResult, error)
	GetContent(ctx context.Context, objectName string) (io.ReadCloser, string, int64, error)
	Delete(ctx context.Context, objectName string) error
	SignedDownloadURL(objectName string, expires time.Duration) (string, error)
	Close() error
}
