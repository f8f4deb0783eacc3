package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/middleware"
	"unicert/internal/usecase"
	"unicert/pkg/errors"
	"unicert/pkg/response"
	"unicert/pkg/utils"
)

type DocumentHandler struct {
	documentUseCase *usecase.DocumentUseCase
}

func NewDocumentHandler(documentUseCase *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{
		documentUseCase: documentUseCase,
	}
}

func (h *DocumentHandler) UploadDocument(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Could not read uploaded file", err))
	}
	defer src.Close()

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	document, err := h.documentUseCase.Upload(c.Request().Context(), actor, usecase.UploadDocumentInput{
		Name:          file.Filename,
		ContentType:   file.Header.Get("Content-Type"),
		Size:          file.Size,
		File:          src,
		CertificateID: c.FormValue("certificate_id"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, document)
}

func (h *DocumentHandler) GetDocument(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	document, err := h.documentUseCase.GetDocument(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, document)
}

// GetDocumentContent streams the stored object back to the caller.
func (h *DocumentHandler) GetDocumentContent(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	reader, contentType, _, err := h.documentUseCase.Content(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, contentType, reader)
}

func (h *DocumentHandler) ListMyDocuments(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	documents, total, err := h.documentUseCase.ListMine(c.Request().Context(), actor.ID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, documents, total, pagination.Page, pagination.PageSize)
}

func (h *DocumentHandler) ListDocuments(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	documents, total, err := h.documentUseCase.List(
		c.Request().Context(),
		c.QueryParam("status"),
		c.QueryParam("type"),
		c.QueryParam("uploader_id"),
		pagination.PageSize, pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, documents, total, pagination.Page, pagination.PageSize)
}

func (h *DocumentHandler) ReviewDocument(c echo.Context) error {
	var req struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	document, err := h.documentUseCase.Review(c.Request().Context(), actor, c.Param("id"), req.Approve, req.Note)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, document)
}

func (h *DocumentHandler) DeleteDocument(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.documentUseCase.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Document deleted",
	})
}
