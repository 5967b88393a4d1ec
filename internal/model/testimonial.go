package model

import "strings"

// Testimonial is a client quote.
type Testimonial struct {
	Base
	ClientName string  `json:"client_name" yaml:"client_name"`
	RoleTitle  *string `json:"role_title" yaml:"role_title"`
	Company    *string `json:"company" yaml:"company"`
	Quote      string  `json:"quote" yaml:"quote"`
	Rating     int     `json:"rating" yaml:"rating"`
	PhotoURL   *string `json:"photo_url" yaml:"photo_url" gorm:"column:photo_url"`
	ShowOnHome bool    `json:"show_on_home" yaml:"show_on_home"`
	Verified   bool    `json:"verified" yaml:"verified"`
	ReceivedAt *Date   `json:"received_at" yaml:"received_at"`
}

func (Testimonial) TableName() string { return "testimonials" }

// NewTestimonial returns a testimonial with the form defaults.
func NewTestimonial() *Testimonial {
	return &Testimonial{Rating: 5}
}

func (t *Testimonial) Normalize() error {
	t.ClientName = strings.TrimSpace(t.ClientName)
	t.Quote = strings.TrimSpace(t.Quote)
	if t.ClientName == "" || t.Quote == "" {
		return invalid("Client name and quote are required.")
	}
	t.RoleTitle = Optional(t.RoleTitle)
	t.Company = Optional(t.Company)
	t.PhotoURL = Optional(t.PhotoURL)
	t.Rating = clamp(t.Rating, 1, 5)
	return nil
}
