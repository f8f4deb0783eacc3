package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
	"unicert/pkg/logger"
)

type firestoreSnapshotRepository struct {
	client *firestore.Client
}

func NewFirestoreSnapshotRepository(client *firestore.Client) repository.SnapshotRepository {
	return &firestoreSnapshotRepository{
		client: client,
	}
}

// cursorField names the timestamp used for incremental dumps. The audit
// log is append-only and carries timestamp instead of updatedAt.
func cursorField(collection string) string {
	if collection == "admin_activities" {
		return "timestamp"
	}
	return "updatedAt"
}

func (r *firestoreSnapshotRepository) DumpCollection(ctx context.Context, collection string, since time.Time) ([]repository.RawDocument, error) {
	query := r.client.Collection(collection).Query
	if !since.IsZero() {
		query = query.Where(cursorField(collection), ">", since)
	}

	iter := query.Documents(ctx)
	var docs []repository.RawDocument

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to dump collection "+collection, err)
		}

		docs = append(docs, repository.RawDocument{
			ID:   doc.Ref.ID,
			Data: doc.Data(),
		})
	}

	return docs, nil
}

func (r *firestoreSnapshotRepository) RestoreCollection(ctx context.Context, collection string, docs []repository.RawDocument) (int, int, error) {
	restored := 0
	failed := 0

	for _, doc := range docs {
		_, err := r.client.Collection(collection).Doc(doc.ID).Set(ctx, doc.Data)
		if err != nil {
			logger.Error("Restore write failed: collection=%s, doc=%s, error=%v", collection, doc.ID, err)
			failed++
			continue
		}
		restored++
	}

	return restored, failed, nil
}
