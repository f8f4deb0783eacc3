package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"unicert/internal/usecase"
	"unicert/pkg/response"
)

type ReportHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewReportHandler(reportUseCase *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
	}
}

func (h *ReportHandler) Dashboard(c echo.Context) error {
	report, err := h.reportUseCase.Dashboard(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ReportHandler) UsersReport(c echo.Context) error {
	report, err := h.reportUseCase.UsersReport(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ReportHandler) CertificatesReport(c echo.Context) error {
	report, err := h.reportUseCase.CertificatesReport(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ReportHandler) DocumentsReport(c echo.Context) error {
	report, err := h.reportUseCase.DocumentsReport(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *ReportHandler) ActivityReport(c echo.Context) error {
	recent, _ := strconv.Atoi(c.QueryParam("recent"))

	report, err := h.reportUseCase.ActivityReport(c.Request().Context(), recent)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

// ExportCertificatesCSV sends the certificate register as a CSV download.
func (h *ReportHandler) ExportCertificatesCSV(c echo.Context) error {
	data, err := h.reportUseCase.ExportCertificatesCSV(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	filename := fmt.Sprintf("certificates-%s.csv", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Blob(http.StatusOK, "text/csv", data)
}
