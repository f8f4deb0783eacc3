package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
)

type firestoreCertificateRepository struct {
	client *firestore.Client
}

func NewFirestoreCertificateRepository(client *firestore.Client) repository.CertificateRepository {
	return &firestoreCertificateRepository{
		client: client,
	}
}

func (r *firestoreCertificateRepository) Create(ctx context.Context, cert *entity.Certificate) error {
	if cert.ID == "" {
		doc := r.client.Collection("certificates").NewDoc()
		cert.ID = doc.ID
	}

	now := time.Now()
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}
	cert.UpdatedAt = now

	_, err := r.client.Collection("certificates").Doc(cert.ID).Set(ctx, cert)
	if err != nil {
		return errors.Internal("Failed to create certificate", err)
	}

	return nil
}

func (r *firestoreCertificateRepository) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	doc, err := r.client.Collection("certificates").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Certificate", err)
		}
		return nil, errors.Internal("Failed to get certificate", err)
	}

	var cert entity.Certificate
	if err := doc.DataTo(&cert); err != nil {
		return nil, errors.Internal("Failed to parse certificate data", err)
	}

	return &cert, nil
}

func (r *firestoreCertificateRepository) GetByVerificationCode(ctx context.Context, code string) (*entity.Certificate, error) {
	query := r.client.Collection("certificates").Where("verificationCode", "==", code).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Certificate", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query certificate by code", err)
	}

	var cert entity.Certificate
	if err := doc.DataTo(&cert); err != nil {
		return nil, errors.Internal("Failed to parse certificate data", err)
	}

	return &cert, nil
}

func (r *firestoreCertificateRepository) Update(ctx context.Context, cert *entity.Certificate) error {
	cert.UpdatedAt = time.Now()

	_, err := r.client.Collection("certificates").Doc(cert.ID).Set(ctx, cert)
	if err != nil {
		return errors.Internal("Failed to update certificate", err)
	}

	return nil
}

func (r *firestoreCertificateRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("certificates").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete certificate", err)
	}

	return nil
}

func (r *firestoreCertificateRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Certificate, int64, error) {
	query := r.client.Collection("certificates").Query

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	// Get total count
	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count certificates", err)
	}
	total := int64(len(allDocs))

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var certs []*entity.Certificate

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate certificates", err)
		}

		var cert entity.Certificate
		if err := doc.DataTo(&cert); err != nil {
			return nil, 0, errors.Internal("Failed to parse certificate data", err)
		}
		certs = append(certs, &cert)
	}

	return certs, total, nil
}

func (r *firestoreCertificateRepository) ListAll(ctx context.Context) ([]*entity.Certificate, error) {
	iter := r.client.Collection("certificates").Documents(ctx)
	var certs []*entity.Certificate

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate certificates", err)
		}

		var cert entity.Certificate
		if err := doc.DataTo(&cert); err != nil {
			return nil, errors.Internal("Failed to parse certificate data", err)
		}
		certs = append(certs, &cert)
	}

	return certs, nil
}

func (r *firestoreCertificateRepository) Transition(ctx context.Context, id string, to entity.CertificateStatus, mutate func(*entity.Certificate) error, activity *entity.AdminActivity) (*entity.Certificate, error) {
	var updated entity.Certificate

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection("certificates").Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Certificate", err)
			}
			return err
		}

		var cert entity.Certificate
		if err := doc.DataTo(&cert); err != nil {
			return err
		}

		if !cert.Status.CanTransitionTo(to) {
			return errors.Conflict(fmt.Sprintf("Certificate cannot move from %s to %s", cert.Status, to), nil)
		}

		cert.Status = to
		if mutate != nil {
			if err := mutate(&cert); err != nil {
				return err
			}
		}
		cert.UpdatedAt = time.Now()
		updated = cert

		if err := tx.Set(docRef, cert); err != nil {
			return err
		}

		if activity != nil {
			activityRef := r.client.Collection("admin_activities").Doc(activity.ID)
			return tx.Set(activityRef, activity)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &updated, nil
}
