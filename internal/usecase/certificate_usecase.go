package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/internal/domain/service"
	ws "unicert/internal/infrastructure/websocket"
	"unicert/pkg/errors"
	"unicert/pkg/logger"
	"unicert/pkg/qrcode"
)

type CertificateUseCase struct {
	certRepo      repository.CertificateRepository
	templateRepo  repository.TemplateRepository
	userRepo      repository.UserRepository
	activityRepo  repository.ActivityRepository
	signer        *service.Signer
	fileStorage   service.FileStorage
	wsManager     *ws.Manager
	verifyBaseURL string
}

func NewCertificateUseCase(
	certRepo repository.CertificateRepository,
	templateRepo repository.TemplateRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	signer *service.Signer,
	fileStorage service.FileStorage,
	wsManager *ws.Manager,
	verifyBaseURL string,
) *CertificateUseCase {
	return &CertificateUseCase{
		certRepo:      certRepo,
		templateRepo:  templateRepo,
		userRepo:      userRepo,
		activityRepo:  activityRepo,
		signer:        signer,
		fileStorage:   fileStorage,
		wsManager:     wsManager,
		verifyBaseURL: verifyBaseURL,
	}
}

type CertificateInput struct {
	TemplateID     string
	Title          string
	Description    string
	RecipientID    string
	RecipientEmail string
	RecipientName  string
	Metadata       map[string]interface{}
}

type IssueInput struct {
	// ExpiresAt overrides the template validity window; nil falls back to
	// the template's validityDays, and no template means no expiry.
	ExpiresAt *time.Time
}

func (uc *CertificateUseCase) CreateDraft(ctx context.Context, issuer *entity.User, input CertificateInput) (*entity.Certificate, error) {
	cert := &entity.Certificate{
		TemplateID:     input.TemplateID,
		Title:          input.Title,
		Description:    input.Description,
		RecipientID:    input.RecipientID,
		RecipientEmail: input.RecipientEmail,
		RecipientName:  input.RecipientName,
		IssuerID:       issuer.ID,
		IssuerName:     issuer.DisplayName,
		Status:         entity.CertStatusDraft,
		Metadata:       input.Metadata,
	}

	if err := uc.applyRecipient(ctx, cert); err != nil {
		return nil, err
	}
	if err := uc.checkTemplate(ctx, cert); err != nil {
		return nil, err
	}

	if err := uc.certRepo.Create(ctx, cert); err != nil {
		return nil, err
	}

	return cert, nil
}

func (uc *CertificateUseCase) UpdateDraft(ctx context.Context, actor *entity.User, id string, input CertificateInput) (*entity.Certificate, error) {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cert.Status != entity.CertStatusDraft {
		return nil, errors.Conflict("Only draft certificates can be edited", nil)
	}
	if cert.IssuerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("Only the issuing authority or an admin can edit this certificate", nil)
	}

	cert.TemplateID = input.TemplateID
	cert.Title = input.Title
	cert.Description = input.Description
	cert.RecipientID = input.RecipientID
	cert.RecipientEmail = input.RecipientEmail
	cert.RecipientName = input.RecipientName
	cert.Metadata = input.Metadata

	if err := uc.applyRecipient(ctx, cert); err != nil {
		return nil, err
	}
	if err := uc.checkTemplate(ctx, cert); err != nil {
		return nil, err
	}

	if err := uc.certRepo.Update(ctx, cert); err != nil {
		return nil, err
	}

	return cert, nil
}

func (uc *CertificateUseCase) DeleteDraft(ctx context.Context, actor *entity.User, id string) error {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if cert.Status != entity.CertStatusDraft {
		return errors.Conflict("Only draft certificates can be deleted", nil)
	}
	if cert.IssuerID != actor.ID && !actor.IsAdmin() {
		return errors.Forbidden("Only the issuing authority or an admin can delete this certificate", nil)
	}

	return uc.certRepo.Delete(ctx, id)
}

// Submit moves a draft into the review queue.
func (uc *CertificateUseCase) Submit(ctx context.Context, actor *entity.User, id string) (*entity.Certificate, error) {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.IssuerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("Only the issuing authority or an admin can submit this certificate", nil)
	}

	activity := uc.newActivity(actor, entity.ActionCertSubmit, id, "")
	updated, err := uc.certRepo.Transition(ctx, id, entity.CertStatusPending, nil, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyReviewers(ws.MessageTypeCertificateSubmitted, updated, actor.ID, "")
	return updated, nil
}

// Approve marks a pending certificate ready for issuance.
func (uc *CertificateUseCase) Approve(ctx context.Context, actor *entity.User, id, note string) (*entity.Certificate, error) {
	activity := uc.newActivity(actor, entity.ActionCertApprove, id, note)

	updated, err := uc.certRepo.Transition(ctx, id, entity.CertStatusApproved, func(cert *entity.Certificate) error {
		cert.ReviewNote = note
		return nil
	}, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyParticipants(ws.MessageTypeCertificateApproved, updated, actor.ID, note)
	return updated, nil
}

// Reject sends a pending certificate back to draft with the reviewer's note
// so the issuer can amend and resubmit it.
func (uc *CertificateUseCase) Reject(ctx context.Context, actor *entity.User, id, note string) (*entity.Certificate, error) {
	if note == "" {
		return nil, errors.BadRequest("Review note is required to reject a certificate", nil)
	}

	activity := uc.newActivity(actor, entity.ActionCertReject, id, note)

	updated, err := uc.certRepo.Transition(ctx, id, entity.CertStatusDraft, func(cert *entity.Certificate) error {
		cert.ReviewNote = note
		return nil
	}, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyParticipants(ws.MessageTypeCertificateRejected, updated, actor.ID, note)
	return updated, nil
}

// Issue stamps the issuance artifacts and makes the certificate publicly
// verifiable. Pending certificates may be issued directly without a separate
// approval step.
func (uc *CertificateUseCase) Issue(ctx context.Context, actor *entity.User, id string, input IssueInput) (*entity.Certificate, error) {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.IssuerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("Only the issuing authority or an admin can issue this certificate", nil)
	}

	now := time.Now()

	code, err := uc.uniqueVerificationCode(ctx)
	if err != nil {
		return nil, err
	}

	serial, err := uc.signer.NewSerialNumber(now)
	if err != nil {
		return nil, errors.Internal("Failed to generate serial number", err)
	}

	expiresAt, err := uc.resolveExpiry(ctx, cert, input.ExpiresAt, now)
	if err != nil {
		return nil, err
	}

	signature := uc.signer.Sign(serial, cert.RecipientID, code, now)

	qrURL, err := uc.uploadQRCode(ctx, id, code)
	if err != nil {
		return nil, err
	}

	activity := uc.newActivity(actor, entity.ActionCertIssue, id, "")
	activity.Details = map[string]interface{}{
		"serialNumber":     serial,
		"verificationCode": code,
	}

	updated, err := uc.certRepo.Transition(ctx, id, entity.CertStatusIssued, func(cert *entity.Certificate) error {
		cert.IssuedAt = now
		cert.ExpiresAt = expiresAt
		cert.VerificationCode = code
		cert.VerificationID = uuid.NewString()
		cert.SerialNumber = serial
		cert.DigitalSignature = signature
		cert.QRCodeURL = qrURL
		return nil
	}, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyParticipants(ws.MessageTypeCertificateIssued, updated, actor.ID, "")
	return updated, nil
}

// Revoke permanently invalidates an issued certificate. There is no way
// back from revoked.
func (uc *CertificateUseCase) Revoke(ctx context.Context, actor *entity.User, id, reason string) (*entity.Certificate, error) {
	if reason == "" {
		return nil, errors.BadRequest("Revocation reason is required", nil)
	}

	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.IssuerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("Only the issuing authority or an admin can revoke this certificate", nil)
	}

	activity := uc.newActivity(actor, entity.ActionCertRevoke, id, reason)

	updated, err := uc.certRepo.Transition(ctx, id, entity.CertStatusRevoked, func(cert *entity.Certificate) error {
		now := time.Now()
		cert.RevokedAt = &now
		cert.RevocationReason = reason
		return nil
	}, activity)
	if err != nil {
		return nil, err
	}

	uc.notifyParticipants(ws.MessageTypeCertificateRevoked, updated, actor.ID, reason)
	return updated, nil
}

func (uc *CertificateUseCase) GetCertificate(ctx context.Context, actor *entity.User, id string) (*entity.Certificate, error) {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canReadCertificate(actor, cert) {
		return nil, errors.Forbidden("You do not have access to this certificate", nil)
	}

	cert.Status = cert.EffectiveStatus(time.Now())
	return cert, nil
}

// ListCertificates returns the slice of the collection the actor may see:
// admins everything, authorities what they issued, everyone else what was
// issued to them. Filtering on the derived expired status falls back to an
// in-memory scan because it is not a stored value.
func (uc *CertificateUseCase) ListCertificates(ctx context.Context, actor *entity.User, status, templateID string, limit, offset int) ([]*entity.Certificate, int64, error) {
	if status == string(entity.CertStatusExpired) {
		return uc.listExpired(ctx, actor, templateID, limit, offset)
	}

	filter := make(map[string]interface{})
	if status != "" {
		filter["status"] = status
	}
	if templateID != "" {
		filter["templateId"] = templateID
	}

	switch {
	case actor.IsAdmin():
	case actor.UserType == entity.UserTypeCA:
		filter["issuerId"] = actor.ID
	default:
		filter["recipientId"] = actor.ID
	}

	certs, total, err := uc.certRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	for _, cert := range certs {
		cert.Status = cert.EffectiveStatus(now)
	}

	return certs, total, nil
}

func (uc *CertificateUseCase) listExpired(ctx context.Context, actor *entity.User, templateID string, limit, offset int) ([]*entity.Certificate, int64, error) {
	all, err := uc.certRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	var matched []*entity.Certificate
	for _, cert := range all {
		if !cert.IsExpired(now) {
			continue
		}
		if templateID != "" && cert.TemplateID != templateID {
			continue
		}
		switch {
		case actor.IsAdmin():
		case actor.UserType == entity.UserTypeCA:
			if cert.IssuerID != actor.ID {
				continue
			}
		default:
			if cert.RecipientID != actor.ID {
				continue
			}
		}
		cert.Status = entity.CertStatusExpired
		matched = append(matched, cert)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], total, nil
}

// VerificationResult is the public payload for a code lookup. Invalid codes
// produce a result with a reason, not an error.
type VerificationResult struct {
	Valid       bool                 `json:"valid"`
	Reason      string               `json:"reason,omitempty"`
	Certificate *VerifiedCertificate `json:"certificate,omitempty"`
	CheckedAt   time.Time            `json:"checked_at"`
}

// VerifiedCertificate is the redacted public view: no recipient contact
// details, no metadata, no internal identifiers beyond the serial.
type VerifiedCertificate struct {
	Title            string     `json:"title"`
	RecipientName    string     `json:"recipient_name"`
	IssuerName       string     `json:"issuer_name"`
	SerialNumber     string     `json:"serial_number"`
	Status           string     `json:"status"`
	IssuedAt         time.Time  `json:"issued_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
}

// VerifyByCode answers the public verification endpoint. Every lookup is
// recorded in the audit log best-effort; a failed audit write never fails
// the lookup. The stored digital signature is returned state, not input:
// lookups do not recompute or validate it.
func (uc *CertificateUseCase) VerifyByCode(ctx context.Context, code, clientIP string) (*VerificationResult, error) {
	now := time.Now()
	code = strings.ToUpper(strings.TrimSpace(code))

	result := &VerificationResult{CheckedAt: now}

	cert, err := uc.certRepo.GetByVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			result.Reason = "not_found"
			uc.recordVerification(ctx, code, clientIP, "", result.Reason)
			return result, nil
		}
		return nil, err
	}

	switch {
	case cert.Status == entity.CertStatusRevoked:
		result.Reason = "revoked"
		result.Certificate = publicView(cert, now)
	case cert.IsExpired(now):
		result.Reason = "expired"
		result.Certificate = publicView(cert, now)
	case cert.Status != entity.CertStatusIssued:
		result.Reason = "not_issued"
	default:
		result.Valid = true
		result.Certificate = publicView(cert, now)
	}

	uc.recordVerification(ctx, code, clientIP, cert.ID, result.Reason)
	return result, nil
}

func publicView(cert *entity.Certificate, now time.Time) *VerifiedCertificate {
	view := &VerifiedCertificate{
		Title:            cert.Title,
		RecipientName:    cert.RecipientName,
		IssuerName:       cert.IssuerName,
		SerialNumber:     cert.SerialNumber,
		Status:           string(cert.EffectiveStatus(now)),
		IssuedAt:         cert.IssuedAt,
		RevokedAt:        cert.RevokedAt,
		RevocationReason: cert.RevocationReason,
	}
	if !cert.ExpiresAt.IsZero() {
		expiresAt := cert.ExpiresAt
		view.ExpiresAt = &expiresAt
	}
	return view
}

func (uc *CertificateUseCase) recordVerification(ctx context.Context, code, clientIP, certID, reason string) {
	outcome := reason
	if outcome == "" {
		outcome = "valid"
	}

	activity := &entity.AdminActivity{
		ID:         uuid.NewString(),
		ActorID:    "public",
		Action:     entity.ActionCertVerify,
		TargetType: entity.TargetTypeCertificate,
		TargetID:   certID,
		Details: map[string]interface{}{
			"code":     code,
			"clientIp": clientIP,
			"outcome":  outcome,
		},
		Timestamp: time.Now(),
	}

	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		logger.Audit(entity.ActionCertVerify, certID, err)
	}
}

// applyRecipient resolves an internal recipient ID to their profile so the
// certificate carries a consistent name and email; external recipients are
// identified by the provided email and name alone.
func (uc *CertificateUseCase) applyRecipient(ctx context.Context, cert *entity.Certificate) error {
	if cert.RecipientID != "" {
		recipient, err := uc.userRepo.GetByID(ctx, cert.RecipientID)
		if err != nil {
			return errors.BadRequest("Recipient user does not exist", err)
		}
		cert.RecipientEmail = recipient.Email
		if cert.RecipientName == "" {
			cert.RecipientName = recipient.DisplayName
		}
		return nil
	}

	if cert.RecipientEmail == "" || cert.RecipientName == "" {
		return errors.BadRequest("Recipient email and name are required when no recipient user is linked", nil)
	}
	return nil
}

func (uc *CertificateUseCase) checkTemplate(ctx context.Context, cert *entity.Certificate) error {
	if cert.TemplateID == "" {
		return nil
	}

	template, err := uc.templateRepo.GetByID(ctx, cert.TemplateID)
	if err != nil {
		return errors.BadRequest("Certificate template does not exist", err)
	}
	if !template.Active {
		return errors.BadRequest("Certificate template is not active", nil)
	}

	if missing := template.MissingFields(cert.Metadata); len(missing) > 0 {
		return errors.BadRequest("Missing required template fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

func (uc *CertificateUseCase) uniqueVerificationCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := uc.signer.NewVerificationCode()
		if err != nil {
			return "", errors.Internal("Failed to generate verification code", err)
		}

		_, err = uc.certRepo.GetByVerificationCode(ctx, code)
		if errors.Is(err, "NOT_FOUND") {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		// collision, try again
	}
	return "", errors.Internal("Could not generate a unique verification code", nil)
}

func (uc *CertificateUseCase) resolveExpiry(ctx context.Context, cert *entity.Certificate, override *time.Time, now time.Time) (time.Time, error) {
	if override != nil {
		if override.Before(now) {
			return time.Time{}, errors.BadRequest("Expiry must be in the future", nil)
		}
		return *override, nil
	}

	if cert.TemplateID == "" {
		return time.Time{}, nil
	}

	template, err := uc.templateRepo.GetByID(ctx, cert.TemplateID)
	if err != nil {
		return time.Time{}, errors.BadRequest("Certificate template does not exist", err)
	}
	if template.ValidityDays <= 0 {
		return time.Time{}, nil
	}
	return now.AddDate(0, 0, template.ValidityDays), nil
}

func (uc *CertificateUseCase) uploadQRCode(ctx context.Context, certID, code string) (string, error) {
	content := fmt.Sprintf("%s?code=%s", uc.verifyBaseURL, code)

	png, err := qrcode.Encode(content, 512)
	if err != nil {
		return "", errors.Internal("Failed to render QR code", err)
	}

	objectName := fmt.Sprintf("certificates/qr/%s.png", certID)
	result, err := uc.fileStorage.UploadBytes(ctx, png, "image/png", objectName, true)
	if err != nil {
		return "", errors.Internal("Failed to upload QR code", err)
	}

	return result.URL, nil
}

func (uc *CertificateUseCase) newActivity(actor *entity.User, action, certID, reason string) *entity.AdminActivity {
	return &entity.AdminActivity{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		TargetType: entity.TargetTypeCertificate,
		TargetID:   certID,
		Reason:     reason,
		Timestamp:  time.Now(),
	}
}

func (uc *CertificateUseCase) notifyParticipants(eventType string, cert *entity.Certificate, actorID, reason string) {
	if uc.wsManager == nil {
		return
	}

	data := ws.CertificateEventData{
		CertificateID: cert.ID,
		Title:         cert.Title,
		Status:        string(cert.Status),
		RecipientID:   cert.RecipientID,
		ActorID:       actorID,
		Reason:        reason,
	}

	if cert.RecipientID != "" {
		uc.wsManager.PublishToUser(cert.RecipientID, eventType, data)
	}
	if cert.IssuerID != "" && cert.IssuerID != cert.RecipientID {
		uc.wsManager.PublishToUser(cert.IssuerID, eventType, data)
	}
}

func (uc *CertificateUseCase) notifyReviewers(eventType string, cert *entity.Certificate, actorID, reason string) {
	if uc.wsManager == nil {
		return
	}

	uc.wsManager.PublishToReviewers(eventType, ws.CertificateEventData{
		CertificateID: cert.ID,
		Title:         cert.Title,
		Status:        string(cert.Status),
		RecipientID:   cert.RecipientID,
		ActorID:       actorID,
		Reason:        reason,
	})
}

func canReadCertificate(actor *entity.User, cert *entity.Certificate) bool {
	if actor.IsAdmin() {
		return true
	}
	if cert.IssuerID == actor.ID {
		return true
	}
	return cert.RecipientID == actor.ID
}
