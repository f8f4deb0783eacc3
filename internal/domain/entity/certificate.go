package entity

import (
	"time"
)

type CertificateStatus string

const (
	CertStatusDraft    CertificateStatus = "draft"
	CertStatusPending  CertificateStatus = "pending"
	CertStatusApproved CertificateStatus = "approved"
	CertStatusIssued   CertificateStatus = "issued"
	CertStatusRevoked  CertificateStatus = "revoked"
	// CertStatusExpired is derived from expiresAt at read time and never
	// written to Firestore.
	CertStatusExpired CertificateStatus = "expired"
)

// certTransitions is the single source of truth for the certificate
// lifecycle. A pending certificate may be issued directly or sent back to
// draft with a review note; revoked is terminal.
var certTransitions = map[CertificateStatus][]CertificateStatus{
	CertStatusDraft:    {CertStatusPending},
	CertStatusPending:  {CertStatusApproved, CertStatusIssued, CertStatusDraft},
	CertStatusApproved: {CertStatusIssued},
	CertStatusIssued:   {CertStatusRevoked},
}

func (s CertificateStatus) CanTransitionTo(next CertificateStatus) bool {
	for _, allowed := range certTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CertificateStatus) IsTerminal() bool {
	return s == CertStatusRevoked
}

type Certificate struct {
	ID          string `json:"id" firestore:"id"`
	TemplateID  string `json:"template_id,omitempty" firestore:"templateId,omitempty"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`

	RecipientID    string `json:"recipient_id" firestore:"recipientId"`
	RecipientEmail string `json:"recipient_email" firestore:"recipientEmail"`
	RecipientName  string `json:"recipient_name" firestore:"recipientName"`
	IssuerID       string `json:"issuer_id" firestore:"issuerId"`
	IssuerName     string `json:"issuer_name" firestore:"issuerName"`

	Status CertificateStatus `json:"status" firestore:"status"`

	VerificationCode string `json:"verification_code,omitempty" firestore:"verificationCode,omitempty"`
	VerificationID   string `json:"verification_id,omitempty" firestore:"verificationId,omitempty"`
	SerialNumber     string `json:"serial_number,omitempty" firestore:"serialNumber,omitempty"`
	QRCodeURL        string `json:"qr_code_url,omitempty" firestore:"qrCodeURL,omitempty"`
	DigitalSignature string `json:"digital_signature,omitempty" firestore:"digitalSignature,omitempty"`

	IssuedAt         time.Time  `json:"issued_at,omitempty" firestore:"issuedAt,omitempty"`
	ExpiresAt        time.Time  `json:"expires_at,omitempty" firestore:"expiresAt,omitempty"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty" firestore:"revokedAt,omitempty"`
	RevocationReason string     `json:"revocation_reason,omitempty" firestore:"revocationReason,omitempty"`
	ReviewNote       string     `json:"review_note,omitempty" firestore:"reviewNote,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsExpired reports whether an issued certificate has passed its expiry.
// Certificates without an expiry never expire.
func (c *Certificate) IsExpired(now time.Time) bool {
	if c.Status != CertStatusIssued {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.Before(now)
}

// EffectiveStatus derives the externally visible status: issued certificates
// past their expiry read as expired without a stored transition.
func (c *Certificate) EffectiveStatus(now time.Time) CertificateStatus {
	if c.IsExpired(now) {
		return CertStatusExpired
	}
	return c.Status
}
