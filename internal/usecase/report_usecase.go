package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
)

// ReportUseCase aggregates by scanning whole collections into in-memory
// counters. That is only sane while the collections stay campus-sized;
// there is deliberately no incremental aggregation.
type ReportUseCase struct {
	userRepo     repository.UserRepository
	certRepo     repository.CertificateRepository
	documentRepo repository.DocumentRepository
	activityRepo repository.ActivityRepository
}

func NewReportUseCase(
	userRepo repository.UserRepository,
	certRepo repository.CertificateRepository,
	documentRepo repository.DocumentRepository,
	activityRepo repository.ActivityRepository,
) *ReportUseCase {
	return &ReportUseCase{
		userRepo:     userRepo,
		certRepo:     certRepo,
		documentRepo: documentRepo,
		activityRepo: activityRepo,
	}
}

type UsersReport struct {
	Total                int            `json:"total"`
	ByStatus             map[string]int `json:"by_status"`
	ByType               map[string]int `json:"by_type"`
	RegistrationsByMonth map[string]int `json:"registrations_by_month"`
}

type CertificatesReport struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByTemplate    map[string]int `json:"by_template"`
	IssuedByMonth map[string]int `json:"issued_by_month"`
	Revoked       int            `json:"revoked"`
	ExpiringSoon  int            `json:"expiring_within_30_days"`
}

type DocumentsReport struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	ByType       map[string]int `json:"by_type"`
	StorageBytes int64          `json:"storage_bytes"`
}

type ActivityReport struct {
	Total    int                     `json:"total"`
	ByAction map[string]int          `json:"by_action"`
	ByActor  map[string]int          `json:"by_actor"`
	Recent   []*entity.AdminActivity `json:"recent"`
}

type DashboardReport struct {
	Users               int `json:"users"`
	PendingUsers        int `json:"pending_users"`
	Certificates        int `json:"certificates"`
	PendingCertificates int `json:"pending_certificates"`
	IssuedCertificates  int `json:"issued_certificates"`
	RevokedCertificates int `json:"revoked_certificates"`
	ExpiredCertificates int `json:"expired_certificates"`
	Documents           int `json:"documents"`
	PendingDocuments    int `json:"pending_documents"`
}

func (uc *ReportUseCase) UsersReport(ctx context.Context) (*UsersReport, error) {
	users, err := uc.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &UsersReport{
		Total:                len(users),
		ByStatus:             make(map[string]int),
		ByType:               make(map[string]int),
		RegistrationsByMonth: make(map[string]int),
	}

	for _, user := range users {
		report.ByStatus[user.Status]++
		report.ByType[user.UserType]++
		report.RegistrationsByMonth[user.CreatedAt.Format("2006-01")]++
	}

	return report, nil
}

func (uc *ReportUseCase) CertificatesReport(ctx context.Context) (*CertificatesReport, error) {
	certs, err := uc.certRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	soon := now.AddDate(0, 0, 30)

	report := &CertificatesReport{
		Total:         len(certs),
		ByStatus:      make(map[string]int),
		ByTemplate:    make(map[string]int),
		IssuedByMonth: make(map[string]int),
	}

	for _, cert := range certs {
		report.ByStatus[string(cert.EffectiveStatus(now))]++

		templateKey := cert.TemplateID
		if templateKey == "" {
			templateKey = "none"
		}
		report.ByTemplate[templateKey]++

		if !cert.IssuedAt.IsZero() {
			report.IssuedByMonth[cert.IssuedAt.Format("2006-01")]++
		}
		if cert.Status == entity.CertStatusRevoked {
			report.Revoked++
		}
		if cert.Status == entity.CertStatusIssued && !cert.ExpiresAt.IsZero() &&
			cert.ExpiresAt.After(now) && cert.ExpiresAt.Before(soon) {
			report.ExpiringSoon++
		}
	}

	return report, nil
}

func (uc *ReportUseCase) DocumentsReport(ctx context.Context) (*DocumentsReport, error) {
	documents, err := uc.documentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &DocumentsReport{
		Total:    len(documents),
		ByStatus: make(map[string]int),
		ByType:   make(map[string]int),
	}

	for _, document := range documents {
		report.ByStatus[document.Status]++
		report.ByType[document.Type]++
		report.StorageBytes += document.FileSize
	}

	return report, nil
}

func (uc *ReportUseCase) ActivityReport(ctx context.Context, recent int) (*ActivityReport, error) {
	if recent <= 0 {
		recent = 20
	}

	activities, err := uc.activityRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ActivityReport{
		Total:    len(activities),
		ByAction: make(map[string]int),
		ByActor:  make(map[string]int),
	}

	for _, activity := range activities {
		report.ByAction[activity.Action]++
		report.ByActor[activity.ActorID]++
	}

	recentEntries, _, err := uc.activityRepo.List(ctx, nil, recent, 0)
	if err != nil {
		return nil, err
	}
	report.Recent = recentEntries

	return report, nil
}

func (uc *ReportUseCase) Dashboard(ctx context.Context) (*DashboardReport, error) {
	usersReport, err := uc.UsersReport(ctx)
	if err != nil {
		return nil, err
	}
	certsReport, err := uc.CertificatesReport(ctx)
	if err != nil {
		return nil, err
	}
	documentsReport, err := uc.DocumentsReport(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		Users:               usersReport.Total,
		PendingUsers:        usersReport.ByStatus[entity.UserStatusPending],
		Certificates:        certsReport.Total,
		PendingCertificates: certsReport.ByStatus[string(entity.CertStatusPending)],
		IssuedCertificates:  certsReport.ByStatus[string(entity.CertStatusIssued)],
		RevokedCertificates: certsReport.ByStatus[string(entity.CertStatusRevoked)],
		ExpiredCertificates: certsReport.ByStatus[string(entity.CertStatusExpired)],
		Documents:           documentsReport.Total,
		PendingDocuments:    documentsReport.ByStatus[entity.DocumentStatusPending],
	}, nil
}

// ExportCertificatesCSV renders the certificate collection as a CSV
// attachment for offline processing.
func (uc *ReportUseCase) ExportCertificatesCSV(ctx context.Context) ([]byte, error) {
	certs, err := uc.certRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "serial_number", "title", "recipient_name", "recipient_email", "issuer_name", "status", "issued_at", "expires_at", "revoked_at"}
	if err := w.Write(header); err != nil {
		return nil, errors.Internal("Failed to write CSV header", err)
	}

	for _, cert := range certs {
		row := []string{
			cert.ID,
			cert.SerialNumber,
			cert.Title,
			cert.RecipientName,
			cert.RecipientEmail,
			cert.IssuerName,
			string(cert.EffectiveStatus(now)),
			formatCSVTime(cert.IssuedAt),
			formatCSVTime(cert.ExpiresAt),
			formatCSVTimePtr(cert.RevokedAt),
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Internal("Failed to write CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Internal("Failed to flush CSV", err)
	}

	return buf.Bytes(), nil
}

func formatCSVTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatCSVTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
