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

type BackupHandler struct {
	backupUseCase *usecase.BackupUseCase
}

func NewBackupHandler(backupUseCase *usecase.BackupUseCase) *BackupHandler {
	return &BackupHandler{
		backupUseCase: backupUseCase,
	}
}

func (h *BackupHandler) CreateBackup(c echo.Context) error {
	var req struct {
		Incremental bool   `json:"incremental"`
		Since       string `json:"since"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	var since time.Time
	if req.Since != "" {
		parsed, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return response.Error(c, errors.BadRequest("since must be RFC3339", err))
		}
		since = parsed
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	record, err := h.backupUseCase.Create(c.Request().Context(), actor, req.Incremental, since)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, record)
}

func (h *BackupHandler) ListBackups(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	records, total, err := h.backupUseCase.List(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, records, total, pagination.Page, pagination.PageSize)
}

func (h *BackupHandler) GetBackup(c echo.Context) error {
	record, err := h.backupUseCase.GetBackup(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, record)
}

func (h *BackupHandler) RestoreBackup(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	summary, err := h.backupUseCase.Restore(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}
