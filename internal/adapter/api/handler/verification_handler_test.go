package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicert/internal/adapter/api"
	"unicert/internal/domain/entity"
	"unicert/internal/domain/service"
	ws "unicert/internal/infrastructure/websocket"
	"unicert/internal/usecase"
	"unicert/pkg/errors"
)

type stubCertRepo struct {
	byCode map[string]*entity.Certificate
}

func (r *stubCertRepo) Create(ctx context.Context, cert *entity.Certificate) error { return nil }

func (r *stubCertRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	return nil, errors.NotFound("Certificate", nil)
}

func (r *stubCertRepo) GetByVerificationCode(ctx context.Context, code string) (*entity.Certificate, error) {
	cert, ok := r.byCode[code]
	if !ok {
		return nil, errors.NotFound("Certificate", nil)
	}
	return cert, nil
}

func (r *stubCertRepo) Update(ctx context.Context, cert *entity.Certificate) error { return nil }

func (r *stubCertRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *stubCertRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Certificate, int64, error) {
	return nil, 0, nil
}

func (r *stubCertRepo) ListAll(ctx context.Context) ([]*entity.Certificate, error) {
	return nil, nil
}

func (r *stubCertRepo) Transition(ctx context.Context, id string, to entity.CertificateStatus, mutate func(*entity.Certificate) error, activity *entity.AdminActivity) (*entity.Certificate, error) {
	return nil, errors.Internal("not supported in stub", nil)
}

type stubActivityRepo struct {
	activities []*entity.AdminActivity
}

func (r *stubActivityRepo) Create(ctx context.Context, activity *entity.AdminActivity) error {
	r.activities = append(r.activities, activity)
	return nil
}

func (r *stubActivityRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.AdminActivity, int64, error) {
	return nil, 0, nil
}

func (r *stubActivityRepo) ListAll(ctx context.Context) ([]*entity.AdminActivity, error) {
	return r.activities, nil
}

func (r *stubActivityRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

// newVerifyServer mounts the public verification route the way the router
// does, backed by stub stores.
func newVerifyServer(certs ...*entity.Certificate) (*echo.Echo, *stubActivityRepo) {
	certRepo := &stubCertRepo{byCode: make(map[string]*entity.Certificate)}
	for _, cert := range certs {
		certRepo.byCode[cert.VerificationCode] = cert
	}
	activities := &stubActivityRepo{}

	uc := usecase.NewCertificateUseCase(
		certRepo, nil, nil, activities,
		service.NewSigner("test-signing-secret"), nil, ws.NewManager(),
		"https://certs.campus.edu/verify",
	)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.GET("/v1/verify/:code", NewVerificationHandler(uc).VerifyCode)

	return e, activities
}

type verifyEnvelope struct {
	Success bool                       `json:"success"`
	Data    usecase.VerificationResult `json:"data"`
}

func getVerify(t *testing.T, e *echo.Echo, code string) (*httptest.ResponseRecorder, verifyEnvelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/v1/verify/"+code, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body verifyEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestVerifyEndpointValidCertificate(t *testing.T) {
	e, activities := newVerifyServer(&entity.Certificate{
		ID:               "cert-1",
		Title:            "Bachelor of Computer Science",
		RecipientName:    "Alex Tan",
		RecipientEmail:   "alex@campus.edu",
		IssuerName:       "Engineering Faculty",
		SerialNumber:     "UC-2025-1A2B3C4D",
		Status:           entity.CertStatusIssued,
		VerificationCode: "ABCD-EFGH-JKLM",
		IssuedAt:         time.Now().Add(-24 * time.Hour),
	})

	rec, body := getVerify(t, e, "ABCD-EFGH-JKLM")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.True(t, body.Data.Valid)
	require.NotNil(t, body.Data.Certificate)
	assert.Equal(t, "UC-2025-1A2B3C4D", body.Data.Certificate.SerialNumber)
	assert.Equal(t, "Alex Tan", body.Data.Certificate.RecipientName)
	assert.Equal(t, "issued", body.Data.Certificate.Status)

	// The public view never leaks contact details or internal IDs.
	assert.NotContains(t, rec.Body.String(), "alex@campus.edu")
	assert.NotContains(t, rec.Body.String(), "cert-1")

	require.Len(t, activities.activities, 1)
	audit := activities.activities[0]
	assert.Equal(t, entity.ActionCertVerify, audit.Action)
	assert.Equal(t, "public", audit.ActorID)
	assert.Equal(t, "valid", audit.Details["outcome"])
}

func TestVerifyEndpointNormalizesCase(t *testing.T) {
	e, _ := newVerifyServer(&entity.Certificate{
		ID:               "cert-1",
		Status:           entity.CertStatusIssued,
		VerificationCode: "ABCD-EFGH-JKLM",
		IssuedAt:         time.Now(),
	})

	rec, body := getVerify(t, e, "abcd-efgh-jklm")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Data.Valid)
}

func TestVerifyEndpointUnknownCode(t *testing.T) {
	e, activities := newVerifyServer()

	rec, body := getVerify(t, e, "2222-3333-4444")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.False(t, body.Data.Valid)
	assert.Equal(t, "not_found", body.Data.Reason)
	assert.Nil(t, body.Data.Certificate)

	require.Len(t, activities.activities, 1)
	assert.Equal(t, "not_found", activities.activities[0].Details["outcome"])
}

func TestVerifyEndpointRevokedCertificate(t *testing.T) {
	revokedAt := time.Now().Add(-time.Hour)
	e, _ := newVerifyServer(&entity.Certificate{
		ID:               "cert-1",
		Title:            "Bachelor of Computer Science",
		Status:           entity.CertStatusRevoked,
		VerificationCode: "ABCD-EFGH-JKLM",
		IssuedAt:         time.Now().Add(-48 * time.Hour),
		RevokedAt:        &revokedAt,
		RevocationReason: "Issued to the wrong student",
	})

	rec, body := getVerify(t, e, "ABCD-EFGH-JKLM")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.Data.Valid)
	assert.Equal(t, "revoked", body.Data.Reason)
	require.NotNil(t, body.Data.Certificate)
	assert.Equal(t, "revoked", body.Data.Certificate.Status)
	assert.Equal(t, "Issued to the wrong student", body.Data.Certificate.RevocationReason)
}
