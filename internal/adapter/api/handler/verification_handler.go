package handler

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/usecase"
	"unicert/pkg/response"
)

// VerificationHandler serves the public, unauthenticated lookup behind the
// QR code on every issued certificate.
type VerificationHandler struct {
	certificateUseCase *usecase.CertificateUseCase
}

func NewVerificationHandler(certificateUseCase *usecase.CertificateUseCase) *VerificationHandler {
	return &VerificationHandler{
		certificateUseCase: certificateUseCase,
	}
}

func (h *VerificationHandler) VerifyCode(c echo.Context) error {
	result, err := h.certificateUseCase.VerifyByCode(c.Request().Context(), c.Param("code"), c.RealIP())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
