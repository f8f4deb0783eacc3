package repository

import (
	"context"

	"unicert/internal/domain/entity"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *entity.CertificateTemplate) error
	GetByID(ctx context.Context, id string) (*entity.CertificateTemplate, error)
	Update(ctx context.Context, template *entity.CertificateTemplate) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.CertificateTemplate, int64, error)
	ListAll(ctx context.Context) ([]*entity.CertificateTemplate, error)
}
