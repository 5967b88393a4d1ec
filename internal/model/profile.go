package model

import (
	"net/mail"
	"strings"
)

// Profile is a dashboard account. Role decides what the account may touch.
type Profile struct {
	Base
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	DisplayName  *string `json:"display_name"`
	Role         Role    `json:"role"`
}

func (Profile) TableName() string { return "profiles" }

// Name is the display name, falling back to the email address.
func (p *Profile) Name() string {
	if p.DisplayName != nil {
		return *p.DisplayName
	}
	return p.Email
}

func (p *Profile) Normalize() error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return invalid("A valid email address is required.")
	}
	p.DisplayName = Optional(p.DisplayName)
	if p.Role == "" {
		p.Role = RoleViewer
	}
	if !p.Role.Valid() {
		return invalid("unknown role %q", p.Role)
	}
	return nil
}
