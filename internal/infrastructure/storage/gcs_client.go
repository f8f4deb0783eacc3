package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"unicert/internal/domain/service"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}, nil
}

func extensionFor(contentType, filename string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	case "application/gzip":
		return ".gz"
	}

	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	return ".bin"
}

func (c *CloudStorageClient) Upload(ctx context.Context, file io.Reader, contentType, folder, filename string, public bool) (*service.UploadResult, error) {
	folder = strings.Trim(folder, "/")
	objectName := fmt.Sprintf("%s/%s-%s%s",
		folder,
		uuid.New().String(),
		time.Now().Format("20060102150405"),
		extensionFor(contentType, filename),
	)

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	size, err := io.Copy(wc, file)
	if err != nil {
		wc.Close()
		return nil, fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close storage writer: %w", err)
	}

	url := ""
	if public {
		if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
			return nil, fmt.Errorf("failed to set object ACL: %w", err)
		}
		url = c.publicURL(objectName)
	}

	return &service.UploadResult{
		URL:        url,
		ObjectName: objectName,
		Size:       size,
	}, nil
}

// UploadBytes writes data to an exact object name; used for generated
// artifacts (QR images, backup blobs) whose names the caller controls.
func (c *CloudStorageClient) UploadBytes(ctx context.Context, data []byte, contentType, objectName string, public bool) (*service.UploadResult, error) {
	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close storage writer: %w", err)
	}

	url := ""
	if public {
		if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
			return nil, fmt.Errorf("failed to set object ACL: %w", err)
		}
		url = c.publicURL(objectName)
	}

	return &service.UploadResult{
		URL:        url,
		ObjectName: objectName,
		Size:       int64(len(data)),
	}, nil
}

func (c *CloudStorageClient) GetContent(ctx context.Context, objectName string) (io.ReadCloser, string, int64, error) {
	obj := c.client.Bucket(c.bucketName).Object(objectName)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to open object %s: %w", objectName, err)
	}

	return reader, reader.Attrs.ContentType, reader.Attrs.Size, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, objectName string) error {
	obj := c.client.Bucket(c.bucketName).Object(objectName)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectName, err)
	}

	return nil
}

// SignedDownloadURL grants temporary read access to a private object, e.g.
// a backup blob surfaced in the admin console.
func (c *CloudStorageClient) SignedDownloadURL(objectName string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(expires),
	}

	url, err := c.client.Bucket(c.bucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", objectName, err)
	}

	return url, nil
}

func (c *CloudStorageClient) publicURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
