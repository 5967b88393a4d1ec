package model

import "strings"

// Certification is a credential with its issuer and verification links.
type Certification struct {
	Base
	Name         string  `json:"name" yaml:"name"`
	IssuingOrg   *string `json:"issuing_org" yaml:"issuing_org"`
	Category     *string `json:"category" yaml:"category"`
	Prestige     int     `json:"prestige" yaml:"prestige"`
	ObtainedAt   *Date   `json:"obtained_at" yaml:"obtained_at"`
	ExpiresAt    *Date   `json:"expires_at" yaml:"expires_at"`
	CredentialID *string `json:"credential_id" yaml:"credential_id" gorm:"column:credential_id"`
	VerifyURL    *string `json:"verify_url" yaml:"verify_url" gorm:"column:verify_url"`
	LogoURL      *string `json:"logo_url" yaml:"logo_url" gorm:"column:logo_url"`
	PdfURL       *string `json:"pdf_url" yaml:"pdf_url" gorm:"column:pdf_url"`
	Description  *string `json:"description" yaml:"description"`
}

func (Certification) TableName() string { return "certifications" }

const defaultPrestige = 50

// NewCertification returns a certification with the form defaults.
func NewCertification() *Certification {
	return &Certification{Prestige: defaultPrestige}
}

// Year is the year the credential was obtained, or "".
func (c *Certification) Year() string {
	if c.ObtainedAt == nil {
		return ""
	}
	return c.ObtainedAt.Format("2006")
}

func (c *Certification) Normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("Name is required.")
	}
	c.IssuingOrg = Optional(c.IssuingOrg)
	c.Category = Optional(c.Category)
	c.CredentialID = Optional(c.CredentialID)
	c.VerifyURL = Optional(c.VerifyURL)
	c.LogoURL = Optional(c.LogoURL)
	c.PdfURL = Optional(c.PdfURL)
	c.Description = Optional(c.Description)
	if c.ObtainedAt != nil && c.ExpiresAt != nil && c.ExpiresAt.Before(c.ObtainedAt.Time) {
		return invalid("Expiry date is before the date obtained.")
	}
	return nil
}
