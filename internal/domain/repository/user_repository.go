package repository

import (
	"context"

	"unicert/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.User, int64, error)
	ListAll(ctx context.Context) ([]*entity.User, error)

	// SetStatusWithActivity moves a user between statuses and appends the
	// activity record in one Firestore transaction. The user must currently
	// hold one of fromStatuses or the transaction fails, which is what makes
	// a second approval of the same application an error.
	SetStatusWithActivity(ctx context.Context, userID string, fromStatuses []string, toStatus string, activity *entity.AdminActivity) (*entity.User, error)

	// SoftDelete marks the user inactive, stamps deletedAt and appends the
	// activity record atomically. Users are never hard-deleted.
	SoftDelete(ctx context.Context, userID string, activity *entity.AdminActivity) (*entity.User, error)
}
