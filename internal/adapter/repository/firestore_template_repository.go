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

type firestoreTemplateRepository struct {
	client *firestore.Client
}

func NewFirestoreTemplateRepository(client *firestore.Client) repository.TemplateRepository {
	return &firestoreTemplateRepository{
		client: client,
	}
}

func (r *firestoreTemplateRepository) Create(ctx context.Context, template *entity.CertificateTemplate) error {
	if template.ID == "" {
		doc := r.client.Collection("certificate_templates").NewDoc()
		template.ID = doc.ID
	}

	now := time.Now()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	_, err := r.client.Collection("certificate_templates").Doc(template.ID).Set(ctx, template)
	if err != nil {
		return errors.Internal("Failed to create template", err)
	}

	return nil
}

func (r *firestoreTemplateRepository) GetByID(ctx context.Context, id string) (*entity.CertificateTemplate, error) {
	doc, err := r.client.Collection("certificate_templates").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Template", err)
		}
		return nil, errors.Internal("Failed to get template", err)
	}

	var template entity.CertificateTemplate
	if err := doc.DataTo(&template); err != nil {
		return nil, errors.Internal("Failed to parse template data", err)
	}

	return &template, nil
}

func (r *firestoreTemplateRepository) Update(ctx context.Context, template *entity.CertificateTemplate) error {
	template.UpdatedAt = time.Now()

	_, err := r.client.Collection("certificate_templates").Doc(template.ID).Set(ctx, template)
	if err != nil {
		return errors.Internal("Failed to update template", err)
	}

	return nil
}

func (r *firestoreTemplateRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.CertificateTemplate, int64, error) {
	query := r.client.Collection("certificate_templates").Query

	if activeOnly {
		query = query.Where("active", "==", true)
	}

	query = query.OrderBy("name", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count templates", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var templates []*entity.CertificateTemplate

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate templates", err)
		}

		var template entity.CertificateTemplate
		if err := doc.DataTo(&template); err != nil {
			return nil, 0, errors.Internal("Failed to parse template data", err)
		}
		templates = append(templates, &template)
	}

	return templates, total, nil
}

func (r *firestoreTemplateRepository) ListAll(ctx context.Context) ([]*entity.CertificateTemplate, error) {
	iter := r.client.Collection("certificate_templates").Documents(ctx)
	var templates []*entity.CertificateTemplate

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate templates", err)
		}

		var template entity.CertificateTemplate
		if err := doc.DataTo(&template); err != nil {
			return nil, errors.Internal("Failed to parse template data", err)
		}
		templates = append(templates, &template)
	}

	return templates, nil
}
