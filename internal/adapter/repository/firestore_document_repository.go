package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
)

type firestoreDocumentRepository struct {
	client *firestore.Client
}

func NewFirestoreDocumentRepository(client *firestore.Client) repository.DocumentRepository {
	return &firestoreDocumentRepository{
		client: client,
	}
}

func (r *firestoreDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	if document.ID == "" {
		doc := r.client.Collection("documents").NewDoc()
		document.ID = doc.ID
	}

	now := time.Now()
	if document.CreatedAt.IsZero() {
		document.CreatedAt = now
	}
	document.UpdatedAt = now

	_, err := r.client.Collection("documents").Doc(document.ID).Set(ctx, document)
	if err != nil {
		return errors.Internal("Failed to create document", err)
	}

	return nil
}

func (r *firestoreDocumentRepository) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := r.client.Collection("documents").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Document", err)
		}
		return nil, errors.Internal("Failed to get document", err)
	}

	var document entity.Document
	if err := doc.DataTo(&document); err != nil {
		return nil, errors.Internal("Failed to parse document data", err)
	}

	return &document, nil
}

func (r *firestoreDocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	document.UpdatedAt = time.Now()

	_, err := r.client.Collection("documents").Doc(document.ID).Set(ctx, document)
	if err != nil {
		return errors.Internal("Failed to update document", err)
	}

	return nil
}

func (r *firestoreDocumentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("documents").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete document", err)
	}

	return nil
}

func (r *firestoreDocumentRepository) ListByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*entity.Document, int64, error) {
	return r.List(ctx, map[string]interface{}{"uploaderId": uploaderID}, limit, offset)
}

func (r *firestoreDocumentRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Document, int64, error) {
	query := r.client.Collection("documents").Query

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count documents", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var documents []*entity.Document

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate documents", err)
		}

		var document entity.Document
		if err := doc.DataTo(&document); err != nil {
			return nil, 0, errors.Internal("Failed to parse document data", err)
		}
		documents = append(documents, &document)
	}

	return documents, total, nil
}

func (r *firestoreDocumentRepository) Review(ctx context.Context, id, toStatus, note string, activity *entity.AdminActivity) (*entity.Document, error) {
	var updated entity.Document

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("documents").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Document", err)
			}
			return err
		}

		var document entity.Document
		if err := doc.DataTo(&document); err != nil {
			return err
		}

		if document.Status != entity.DocumentStatusPending {
			return errors.Conflict("Document has already been reviewed", nil)
		}

		document.Status = toStatus
		document.ReviewNote = note
		document.UpdatedAt = time.Now()
		updated = document

		if err := tx.Set(docRef, document); err != nil {
			return err
		}

		activityRef := r.client.Collection("admin_activities").Doc(activity.ID)
		return tx.Set(activityRef, activity)
	})

	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *firestoreDocumentRepository) ListAll(ctx context.Context) ([]*entity.Document, error) {
	iter := r.client.Collection("documents").Documents(ctx)
	var documents []*entity.Document

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate documents", err)
		}

		var document entity.Document
		if err := doc.DataTo(&document); err != nil {
			return nil, errors.Internal("Failed to parse document data", err)
		}
		documents = append(documents, &document)
	}

	return documents, nil
}
