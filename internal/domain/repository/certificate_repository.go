package repository

import (
	"context"

	"unicert/internal/domain/entity"
)

type CertificateRepository interface {
	Create(ctx context.Context, cert *entity.Certificate) error
	GetByID(ctx context.Context, id string) (*entity.Certificate, error)
	GetByVerificationCode(ctx context.Context, code string) (*entity.Certificate, error)
	Update(ctx context.Context, cert *entity.Certificate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Certificate, int64, error)
	ListAll(ctx context.Context) ([]*entity.Certificate, error)

	// Transition re-reads the certificate inside a Firestore transaction,
	// verifies the status change is legal, applies mutate, and writes the
	// certificate together with the activity record. A nil activity skips
	// the audit write.
	Transition(ctx context.Context, id string, to entity.CertificateStatus, mutate func(*entity.Certificate) error, activity *entity.AdminActivity) (*entity.Certificate, error)
}
