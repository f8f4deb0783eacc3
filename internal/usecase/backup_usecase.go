package usecase

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
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

const backupPayloadVersion = 1

// backupCollections is the fixed set of collections a backup covers.
var backupCollections = []string{
	"users",
	"certificates",
	"certificate_templates",
	"documents",
	"admin_activities",
}

type BackupUseCase struct {
	snapshotRepo repository.SnapshotRepository
	backupRepo   repository.BackupRepository
	activityRepo repository.ActivityRepository
	fileStorage  service.FileStorage
	wsManager    *ws.Manager
	prefix       string
}

func NewBackupUseCase(
	snapshotRepo repository.SnapshotRepository,
	backupRepo repository.BackupRepository,
	activityRepo repository.ActivityRepository,
	fileStorage service.FileStorage,
	wsManager *ws.Manager,
	prefix string,
) *BackupUseCase {
	return &BackupUseCase{
		snapshotRepo: snapshotRepo,
		backupRepo:   backupRepo,
		activityRepo: activityRepo,
		fileStorage:  fileStorage,
		wsManager:    wsManager,
		prefix:       prefix,
	}
}

// backupPayload is the serialized form stored in the bucket: one JSON
// document carrying every collection, gzip-compressed.
type backupPayload struct {
	Version     int                                 `json:"version"`
	CreatedAt   time.Time                           `json:"created_at"`
	Incremental bool                                `json:"incremental"`
	Since       *time.Time                          `json:"since,omitempty"`
	Collections map[string][]repository.RawDocument `json:"collections"`
}

func encodeBackup(payload *backupPayload) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	if err := json.NewEncoder(gz).Encode(payload); err != nil {
		gz.Close()
		return nil, fmt.Errorf("failed to encode backup payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress backup payload: %w", err)
	}

	return buf.Bytes(), nil
}

func decodeBackup(data []byte) (*backupPayload, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open backup payload: %w", err)
	}
	defer gz.Close()

	var payload backupPayload
	if err := json.NewDecoder(gz).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode backup payload: %w", err)
	}

	return &payload, nil
}

// Create dumps every collection into one compressed blob in the bucket and
// records the run. A read failure on any collection marks the record failed
// and keeps the error; nothing partial is uploaded.
func (uc *BackupUseCase) Create(ctx context.Context, actor *entity.User, incremental bool, since time.Time) (*entity.BackupRecord, error) {
	if incremental && since.IsZero() {
		return nil, errors.BadRequest("Incremental backup requires a since timestamp", nil)
	}

	record := &entity.BackupRecord{
		Collections: backupCollections,
		Status:      entity.BackupStatusRunning,
		Incremental: incremental,
		Since:       since,
		CreatedBy:   actor.ID,
		StartedAt:   time.Now(),
	}
	if err := uc.backupRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	payload := &backupPayload{
		Version:     backupPayloadVersion,
		CreatedAt:   record.StartedAt,
		Incremental: incremental,
		Collections: make(map[string][]repository.RawDocument, len(backupCollections)),
	}
	if incremental {
		payload.Since = &since
	}

	dumpSince := time.Time{}
	if incremental {
		dumpSince = since
	}

	count := 0
	for _, collection := range backupCollections {
		docs, err := uc.snapshotRepo.DumpCollection(ctx, collection, dumpSince)
		if err != nil {
			uc.markFailed(ctx, record, fmt.Sprintf("dump %s: %v", collection, err))
			return nil, err
		}
		payload.Collections[collection] = docs
		count += len(docs)
	}

	blob, err := encodeBackup(payload)
	if err != nil {
		uc.markFailed(ctx, record, err.Error())
		return nil, errors.Internal("Failed to encode backup", err)
	}

	objectName := fmt.Sprintf("%s/backup-%s.json.gz", uc.prefix, record.StartedAt.Format("20060102-150405"))
	if _, err := uc.fileStorage.UploadBytes(ctx, blob, "application/gzip", objectName, false); err != nil {
		uc.markFailed(ctx, record, err.Error())
		return nil, errors.Internal("Failed to upload backup", err)
	}

	downloadURL, err := uc.fileStorage.SignedDownloadURL(objectName, 24*time.Hour)
	if err != nil {
		logger.Warn("Failed to sign backup download URL: %v", err)
	}

	record.Status = entity.BackupStatusCompleted
	record.DocumentCount = count
	record.Size = int64(len(blob))
	record.ObjectName = objectName
	record.DownloadURL = downloadURL
	record.CompletedAt = time.Now()

	if err := uc.backupRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	uc.recordRun(ctx, actor, entity.ActionBackupCreate, record.ID, map[string]interface{}{
		"documents":   count,
		"bytes":       record.Size,
		"incremental": incremental,
	})

	return record, nil
}

func (uc *BackupUseCase) List(ctx context.Context, limit, offset int) ([]*entity.BackupRecord, int64, error) {
	return uc.backupRepo.List(ctx, limit, offset)
}

func (uc *BackupUseCase) GetBackup(ctx context.Context, id string) (*entity.BackupRecord, error) {
	return uc.backupRepo.GetByID(ctx, id)
}

// CollectionRestoreResult reports the per-collection outcome of a restore.
type CollectionRestoreResult struct {
	Restored int `json:"restored"`
	Failed   int `json:"failed"`
}

type RestoreSummary struct {
	BackupID      string                             `json:"backup_id"`
	Collections   map[string]CollectionRestoreResult `json:"collections"`
	TotalRestored int                                `json:"total_restored"`
	TotalFailed   int                                `json:"total_failed"`
}

// Restore rewrites collections from a completed backup as a flat replace.
// There is no transaction across collections: failures are counted and
// reported, and a partially restored state is left as-is for the operator
// to see.
func (uc *BackupUseCase) Restore(ctx context.Context, actor *entity.User, backupID string) (*RestoreSummary, error) {
	record, err := uc.backupRepo.GetByID(ctx, backupID)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.BackupStatusCompleted {
		return nil, errors.Conflict("Only completed backups can be restored", nil)
	}

	reader, _, _, err := uc.fileStorage.GetContent(ctx, record.ObjectName)
	if err != nil {
		return nil, errors.Internal("Failed to download backup blob", err)
	}
	defer reader.Close()

	blob, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Internal("Failed to read backup blob", err)
	}

	payload, err := decodeBackup(blob)
	if err != nil {
		return nil, errors.BadRequest("Backup blob is not readable", err)
	}

	summary := &RestoreSummary{
		BackupID:    backupID,
		Collections: make(map[string]CollectionRestoreResult, len(payload.Collections)),
	}

	for collection, docs := range payload.Collections {
		restored, failed, err := uc.snapshotRepo.RestoreCollection(ctx, collection, docs)
		if err != nil {
			logger.Error("Restore of %s aborted: %v", collection, err)
			failed += len(docs) - restored - failed
		}
		summary.Collections[collection] = CollectionRestoreResult{Restored: restored, Failed: failed}
		summary.TotalRestored += restored
		summary.TotalFailed += failed
	}

	uc.recordRun(ctx, actor, entity.ActionBackupRestore, backupID, map[string]interface{}{
		"restored": summary.TotalRestored,
		"failed":   summary.TotalFailed,
	})

	// Every connected client holds state the restore may have replaced.
	if uc.wsManager != nil {
		uc.wsManager.PublishToAll(ws.MessageTypeDataRestored, ws.RestoreEventData{
			BackupID: backupID,
			Restored: summary.TotalRestored,
			Failed:   summary.TotalFailed,
		})
	}

	return summary, nil
}

func (uc *BackupUseCase) markFailed(ctx context.Context, record *entity.BackupRecord, message string) {
	record.Status = entity.BackupStatusFailed
	record.Error = message
	record.CompletedAt = time.Now()

	if err := uc.backupRepo.Update(ctx, record); err != nil {
		logger.Error("Failed to mark backup %s as failed: %v", record.ID, err)
	}
}

func (uc *BackupUseCase) recordRun(ctx context.Context, actor *entity.User, action, targetID string, details map[string]interface{}) {
	activity := &entity.AdminActivity{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		TargetType: entity.TargetTypeBackup,
		TargetID:   targetID,
		Details:    details,
		Timestamp:  time.Now(),
	}

	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		logger.Audit(action, targetID, err)
	}
}
