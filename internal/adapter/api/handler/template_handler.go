package handler

import (
	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/middleware"
	"unicert/internal/domain/entity"
	"unicert/internal/usecase"
	"unicert/pkg/response"
	"unicert/pkg/utils"
)

type TemplateHandler struct {
	templateUseCase *usecase.TemplateUseCase
}

func NewTemplateHandler(templateUseCase *usecase.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{
		templateUseCase: templateUseCase,
	}
}

type templateFieldRequest struct {
	Key      string `json:"key" validate:"required"`
	Label    string `json:"label" validate:"required"`
	Required bool   `json:"required"`
}

type templateRequest struct {
	Name         string                 `json:"name" validate:"required,min=3"`
	Description  string                 `json:"description"`
	Fields       []templateFieldRequest `json:"fields" validate:"dive"`
	ValidityDays int                    `json:"validity_days" validate:"omitempty,gte=0"`
	Active       *bool                  `json:"active"`
}

func (r templateRequest) toInput() usecase.TemplateInput {
	fields := make([]entity.TemplateField, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, entity.TemplateField{
			Key:      f.Key,
			Label:    f.Label,
			Required: f.Required,
		})
	}

	return usecase.TemplateInput{
		Name:         r.Name,
		Description:  r.Description,
		Fields:       fields,
		ValidityDays: r.ValidityDays,
		Active:       r.Active,
	}
}

func (h *TemplateHandler) CreateTemplate(c echo.Context) error {
	var req templateRequest
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

	template, err := h.templateUseCase.CreateTemplate(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, template)
}

func (h *TemplateHandler) UpdateTemplate(c echo.Context) error {
	var req templateRequest
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

	template, err := h.templateUseCase.UpdateTemplate(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, template)
}

func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	template, err := h.templateUseCase.GetTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, template)
}

func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	activeOnly := c.QueryParam("active") == "true"

	templates, total, err := h.templateUseCase.ListTemplates(c.Request().Context(), activeOnly, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, templates, total, pagination.Page, pagination.PageSize)
}
