package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/middleware"
	"unicert/internal/usecase"
	"unicert/pkg/errors"
	"unicert/pkg/response"
	"unicert/pkg/utils"
)

type CertificateHandler struct {
	certificateUseCase *usecase.CertificateUseCase
}

func NewCertificateHandler(certificateUseCase *usecase.CertificateUseCase) *CertificateHandler {
	return &CertificateHandler{
		certificateUseCase: certificateUseCase,
	}
}

type certificateRequest struct {
	TemplateID     string                 `json:"template_id"`
	Title          string                 `json:"title" validate:"required,min=3"`
	Description    string                 `json:"description"`
	RecipientID    string                 `json:"recipient_id"`
	RecipientEmail string                 `json:"recipient_email" validate:"omitempty,email"`
	RecipientName  string                 `json:"recipient_name"`
	Metadata       map[string]interface{} `json:"metadata"`
}

func (r certificateRequest) toInput() usecase.CertificateInput {
	return usecase.CertificateInput{
		TemplateID:     r.TemplateID,
		Title:          r.Title,
		Description:    r.Description,
		RecipientID:    r.RecipientID,
		RecipientEmail: r.RecipientEmail,
		RecipientName:  r.RecipientName,
		Metadata:       r.Metadata,
	}
}

type reviewRequest struct {
	Note string `json:"note"`
}

func (h *CertificateHandler) CreateCertificate(c echo.Context) error {
	var req certificateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.CreateDraft(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, cert)
}

func (h *CertificateHandler) UpdateCertificate(c echo.Context) error {
	var req certificateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.UpdateDraft(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) DeleteCertificate(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.certificateUseCase.DeleteDraft(c.Request().Context(), actor, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Certificate deleted",
	})
}

func (h *CertificateHandler) SubmitCertificate(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.Submit(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) ApproveCertificate(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.Approve(c.Request().Context(), actor, c.Param("id"), req.Note)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) RejectCertificate(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.Reject(c.Request().Context(), actor, c.Param("id"), req.Note)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) IssueCertificate(c echo.Context) error {
	var req struct {
		ExpiresAt string `json:"expires_at"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.IssueInput{}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return response.Error(c, errors.BadRequest("expires_at must be RFC3339", err))
		}
		input.ExpiresAt = &expiresAt
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.Issue(c.Request().Context(), actor, c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) RevokeCertificate(c echo.Context) error {
	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.Revoke(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) GetCertificate(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	cert, err := h.certificateUseCase.GetCertificate(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, cert)
}

func (h *CertificateHandler) ListCertificates(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	certs, total, err := h.certificateUseCase.ListCertificates(
		c.Request().Context(),
		actor,
		c.QueryParam("status"),
		c.QueryParam("template_id"),
		pagination.PageSize, pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, certs, total, pagination.Page, pagination.PageSize)
}
