package repository

import (
	"context"

	"unicert/internal/domain/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id string) error
	ListByUploader(ctx context.Context, uploaderID string, limit, offset int) ([]*entity.Document, int64, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Document, int64, error)
	ListAll(ctx context.Context) ([]*entity.Document, error)

	// Review settles a pending document and appends the activity record in
	// one Firestore transaction. A document that is no longer pending fails
	// the transaction.
	Review(ctx context.Context, id, toStatus, note string, activity *entity.AdminActivity) (*entity.Document, error)
}
