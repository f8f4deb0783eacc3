package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/internal/domain/service"
	ws "unicert/internal/infrastructure/websocket"
	"unicert/pkg/errors"
	"unicert/pkg/logger"
)

// maxDocumentSize caps uploads at 10 MB.
const maxDocumentSize = 10 << 20

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

type DocumentUseCase struct {
	documentRepo repository.DocumentRepository
	certRepo     repository.CertificateRepository
	fileStorage  service.FileStorage
	wsManager    *ws.Manager
}

func NewDocumentUseCase(documentRepo repository.DocumentRepository, certRepo repository.CertificateRepository, fileStorage service.FileStorage, wsManager *ws.Manager) *DocumentUseCase {
	return &DocumentUseCase{
		documentRepo: documentRepo,
		certRepo:     certRepo,
		fileStorage:  fileStorage,
		wsManager:    wsManager,
	}
}

type UploadDocumentInput struct {
	Name          string
	ContentType   string
	Size          int64
	File          io.Reader
	CertificateID string
}

func (uc *DocumentUseCase) Upload(ctx context.Context, uploader *entity.User, input UploadDocumentInput) (*entity.Document, error) {
	if input.Size > maxDocumentSize {
		return nil, errors.BadRequest("File exceeds the 10 MB limit", nil)
	}
	if !allowedDocumentTypes[input.ContentType] {
		return nil, errors.BadRequest("Unsupported file type; allowed: pdf, png, jpeg, webp", nil)
	}

	if input.CertificateID != "" {
		cert, err := uc.certRepo.GetByID(ctx, input.CertificateID)
		if err != nil {
			return nil, errors.BadRequest("Linked certificate does not exist", err)
		}
		if cert.RecipientID != uploader.ID && cert.IssuerID != uploader.ID && !uploader.IsAdmin() {
			return nil, errors.Forbidden("You cannot attach documents to this certificate", nil)
		}
	}

	result, err := uc.fileStorage.Upload(ctx, input.File, input.ContentType, "documents/"+uploader.ID, input.Name, false)
	if err != nil {
		return nil, errors.Internal("Failed to store file", err)
	}

	document := &entity.Document{
		Name:          input.Name,
		Type:          input.ContentType,
		Status:        entity.DocumentStatusPending,
		URL:           result.URL,
		ObjectName:    result.ObjectName,
		FileSize:      result.Size,
		UploaderID:    uploader.ID,
		CertificateID: input.CertificateID,
	}

	if err := uc.documentRepo.Create(ctx, document); err != nil {
		// The object is already in the bucket; drop it so a failed metadata
		// write does not leak storage.
		if delErr := uc.fileStorage.Delete(ctx, result.ObjectName); delErr != nil {
			logger.Error("Failed to clean up orphaned object %s: %v", result.ObjectName, delErr)
		}
		return nil, err
	}

	return document, nil
}

func (uc *DocumentUseCase) GetDocument(ctx context.Context, actor *entity.User, id string) (*entity.Document, error) {
	document, err := uc.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if document.UploaderID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("You do not have access to this document", nil)
	}

	return document, nil
}

// Content streams the stored object for viewing; the caller must close the
// reader.
func (uc *DocumentUseCase) Content(ctx context.Context, actor *entity.User, id string) (io.ReadCloser, string, int64, error) {
	document, err := uc.GetDocument(ctx, actor, id)
	if err != nil {
		return nil, "", 0, err
	}

	reader, contentType, size, err := uc.fileStorage.GetContent(ctx, document.ObjectName)
	if err != nil {
		return nil, "", 0, errors.Internal("Failed to read file content", err)
	}

	return reader, contentType, size, nil
}

func (uc *DocumentUseCase) ListMine(ctx context.Context, uploaderID string, limit, offset int) ([]*entity.Document, int64, error) {
	return uc.documentRepo.ListByUploader(ctx, uploaderID, limit, offset)
}

func (uc *DocumentUseCase) List(ctx context.Context, status, contentType, uploaderID string, limit, offset int) ([]*entity.Document, int64, error) {
	filter := make(map[string]interface{})
	if status != "" {
		filter["status"] = status
	}
	if contentType != "" {
		filter["type"] = contentType
	}
	if uploaderID != "" {
		filter["uploaderId"] = uploaderID
	}

	return uc.documentRepo.List(ctx, filter, limit, offset)
}

// Review settles a pending document. The status write and the audit entry
// commit in one transaction; reviewing an already-settled document fails.
func (uc *DocumentUseCase) Review(ctx context.Context, actor *entity.User, id string, approve bool, note string) (*entity.Document, error) {
	toStatus := entity.DocumentStatusApproved
	if !approve {
		toStatus = entity.DocumentStatusRejected
		if note == "" {
			return nil, errors.BadRequest("Review note is required to reject a document", nil)
		}
	}

	activity := &entity.AdminActivity{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     entity.ActionDocumentReview,
		TargetType: entity.TargetTypeDocument,
		TargetID:   id,
		Reason:     note,
		Details:    map[string]interface{}{"outcome": toStatus},
		Timestamp:  time.Now(),
	}

	document, err := uc.documentRepo.Review(ctx, id, toStatus, note, activity)
	if err != nil {
		return nil, err
	}

	if uc.wsManager != nil {
		uc.wsManager.PublishToUser(document.UploaderID, ws.MessageTypeDocumentReviewed, ws.DocumentEventData{
			DocumentID: document.ID,
			Name:       document.Name,
			Status:     document.Status,
			ReviewNote: document.ReviewNote,
		})
	}

	return document, nil
}

// Delete removes the stored object first, then the metadata. A metadata
// failure after the object is gone is surfaced, not rolled back; the error
// and the orphaned record are the operator's signal.
func (uc *DocumentUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	document, err := uc.documentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if document.UploaderID != actor.ID && !actor.IsAdmin() {
		return errors.Forbidden("You do not have access to this document", nil)
	}

	if err := uc.fileStorage.Delete(ctx, document.ObjectName); err != nil {
		return errors.Internal("Failed to delete stored file", err)
	}

	if err := uc.documentRepo.Delete(ctx, id); err != nil {
		logger.Error("Object %s deleted but metadata removal failed: %v", document.ObjectName, err)
		return err
	}

	return nil
}
