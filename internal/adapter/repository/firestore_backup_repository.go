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

type firestoreBackupRepository struct {
	client *firestore.Client
}

func NewFirestoreBackupRepository(client *firestore.Client) repository.BackupRepository {
	return &firestoreBackupRepository{
		client: client,
	}
}

func (r *firestoreBackupRepository) Create(ctx context.Context, record *entity.BackupRecord) error {
	if record.ID == "" {
		doc := r.client.Collection("backup_records").NewDoc()
		record.ID = doc.ID
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now()
	}

	_, err := r.client.Collection("backup_records").Doc(record.ID).Set(ctx, record)
	if err != nil {
		return errors.Internal("Failed to create backup record", err)
	}

	return nil
}

func (r *firestoreBackupRepository) GetByID(ctx context.Context, id string) (*entity.BackupRecord, error) {
	doc, err := r.client.Collection("backup_records").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Backup record", err)
		}
		return nil, errors.Internal("Failed to get backup record", err)
	}

	var record entity.BackupRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, errors.Internal("Failed to parse backup record data", err)
	}

	return &record, nil
}

func (r *firestoreBackupRepository) Update(ctx context.Context, record *entity.BackupRecord) error {
	_, err := r.client.Collection("backup_records").Doc(record.ID).Set(ctx, record)
	if err != nil {
		return errors.Internal("Failed to update backup record", err)
	}

	return nil
}

func (r *firestoreBackupRepository) List(ctx context.Context, limit, offset int) ([]*entity.BackupRecord, int64, error) {
	query := r.client.Collection("backup_records").OrderBy("startedAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count backup records", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var records []*entity.BackupRecord

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate backup records", err)
		}

		var record entity.BackupRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, 0, errors.Internal("Failed to parse backup record data", err)
		}
		records = append(records, &record)
	}

	return records, total, nil
}
