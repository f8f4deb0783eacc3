package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
)

type firestoreActivityRepository struct {
	client *firestore.Client
}

func NewFirestoreActivityRepository(client *firestore.Client) repository.ActivityRepository {
	return &firestoreActivityRepository{
		client: client,
	}
}

func (r *firestoreActivityRepository) Create(ctx context.Context, activity *entity.AdminActivity) error {
	if activity.ID == "" {
		doc := r.client.Collection("admin_activities").NewDoc()
		activity.ID = doc.ID
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}

	_, err := r.client.Collection("admin_activities").Doc(activity.ID).Set(ctx, activity)
	if err != nil {
		return errors.Internal("Failed to create activity", err)
	}

	return nil
}

func (r *firestoreActivityRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.AdminActivity, int64, error) {
	query := r.client.Collection("admin_activities").Query

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	query = query.OrderBy("timestamp", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count activities", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var activities []*entity.AdminActivity

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate activities", err)
		}

		var activity entity.AdminActivity
		if err := doc.DataTo(&activity); err != nil {
			return nil, 0, errors.Internal("Failed to parse activity data", err)
		}
		activities = append(activities, &activity)
	}

	return activities, total, nil
}

func (r *firestoreActivityRepository) ListAll(ctx context.Context) ([]*entity.AdminActivity, error) {
	iter := r.client.Collection("admin_activities").Documents(ctx)
	var activities []*entity.AdminActivity

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate activities", err)
		}

		var activity entity.AdminActivity
		if err := doc.DataTo(&activity); err != nil {
			return nil, errors.Internal("Failed to parse activity data", err)
		}
		activities = append(activities, &activity)
	}

	return activities, nil
}

func (r *firestoreActivityRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int, error) {
	query := r.client.Collection("admin_activities").Where("timestamp", "<", before)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query expired activities", err)
	}

	// Firestore batches cap at 500 writes
	deleted := 0
	for start := 0; start < len(docs); start += 500 {
		end := start + 500
		if end > len(docs) {
			end = len(docs)
		}

		batch := r.client.Batch()
		for _, doc := range docs[start:end] {
			batch.Delete(doc.Ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return deleted, errors.Internal("Failed to delete expired activities", err)
		}
		deleted += end - start
	}

	return deleted, nil
}
