package repository

import (
	"context"
	"time"

	"unicert/internal/domain/entity"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.AdminActivity) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.AdminActivity, int64, error)
	ListAll(ctx context.Context) ([]*entity.AdminActivity, error)

	// DeleteOlderThan trims the append-only log for retention; returns the
	// number of entries removed.
	DeleteOlderThan(ctx context.Context, before time.Time) (int, error)
}
