package repository

import (
	"context"
	"time"

	"unicert/internal/domain/entity"
)

type BackupRepository interface {
	Create(ctx context.Context, record *entity.BackupRecord) error
	GetByID(ctx context.Context, id string) (*entity.BackupRecord, error)
	Update(ctx context.Context, record *entity.BackupRecord) error
	List(ctx context.Context, limit, offset int) ([]*entity.BackupRecord, int64, error)
}

// RawDocument is a collection document detached from its entity type, as
// carried inside backup payloads.
type RawDocument struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

// SnapshotRepository reads and rewrites whole collections by name. Backup
// and restore go through this instead of the typed repositories so new
// collections only need a name in the backup set.
type SnapshotRepository interface {
	// DumpCollection returns every document; a non-zero since restricts the
	// dump to documents with updatedAt after it.
	DumpCollection(ctx context.Context, collection string, since time.Time) ([]RawDocument, error)

	// RestoreCollection rewrites documents as a flat replace, preserving IDs.
	// Failures are counted and skipped, not rolled back.
	RestoreCollection(ctx context.Context, collection string, docs []RawDocument) (restored int, failed int, err error)
}
