package entity

import (
	"time"
)

type TemplateField struct {
	Key      string `json:"key" firestore:"key"`
	Label    string `json:"label" firestore:"label"`
	Required bool   `json:"required" firestore:"required"`
}

type CertificateTemplate struct {
	ID          string          `json:"id" firestore:"id"`
	Name        string          `json:"name" firestore:"name"`
	Description string          `json:"description,omitempty" firestore:"description,omitempty"`
	IssuerID    string          `json:"issuer_id" firestore:"issuerId"`
	Fields      []TemplateField `json:"fields,omitempty" firestore:"fields,omitempty"`

	// ValidityDays controls the expiry stamped at issuance; zero means the
	// certificate never expires.
	ValidityDays int  `json:"validity_days" firestore:"validityDays"`
	Active       bool `json:"active" firestore:"active"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// MissingFields returns the keys of required template fields absent from the
// certificate metadata.
func (t *CertificateTemplate) MissingFields(metadata map[string]interface{}) []string {
	var missing []string
	for _, field := range t.Fields {
		if !field.Required {
			continue
		}
		if _, ok := metadata[field.Key]; !ok {
			missing = append(missing, field.Key)
		}
	}
	return missing
}
