package usecase

import (
	"context"

	"unicert/internal/domain/entity"
	"unicert/internal/domain/repository"
	"unicert/pkg/errors"
)

type TemplateUseCase struct {
	templateRepo repository.TemplateRepository
}

func NewTemplateUseCase(templateRepo repository.TemplateRepository) *TemplateUseCase {
	return &TemplateUseCase{
		templateRepo: templateRepo,
	}
}

type TemplateInput struct {
	Name         string
	Description  string
	Fields       []entity.TemplateField
	ValidityDays int
	Active       *bool
}

func (uc *TemplateUseCase) CreateTemplate(ctx context.Context, issuer *entity.User, input TemplateInput) (*entity.CertificateTemplate, error) {
	if err := validateTemplateFields(input.Fields); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	template := &entity.CertificateTemplate{
		Name:         input.Name,
		Description:  input.Description,
		IssuerID:     issuer.ID,
		Fields:       input.Fields,
		ValidityDays: input.ValidityDays,
		Active:       active,
	}

	if err := uc.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (uc *TemplateUseCase) UpdateTemplate(ctx context.Context, actor *entity.User, id string, input TemplateInput) (*entity.CertificateTemplate, error) {
	template, err := uc.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if template.IssuerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.Forbidden("Only the owning issuer or an admin can edit this template", nil)
	}

	if err := validateTemplateFields(input.Fields); err != nil {
		return nil, err
	}

	if input.Name != "" {
		template.Name = input.Name
	}
	template.Description = input.Description
	if input.Fields != nil {
		template.Fields = input.Fields
	}
	if input.ValidityDays >= 0 {
		template.ValidityDays = input.ValidityDays
	}
	if input.Active != nil {
		template.Active = *input.Active
	}

	if err := uc.templateRepo.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (uc *TemplateUseCase) GetTemplate(ctx context.Context, id string) (*entity.CertificateTemplate, error) {
	return uc.templateRepo.GetByID(ctx, id)
}

func (uc *TemplateUseCase) ListTemplates(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.CertificateTemplate, int64, error) {
	return uc.templateRepo.List(ctx, activeOnly, limit, offset)
}

func validateTemplateFields(fields []entity.TemplateField) error {
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		if field.Key == "" {
			return errors.BadRequest("Template field key cannot be empty", nil)
		}
		if seen[field.Key] {
			return errors.BadRequest("Duplicate template field key: "+field.Key, nil)
		}
		seen[field.Key] = true
	}
	return nil
}
