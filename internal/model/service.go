package model

import (
	"strings"

	"github.com/lib/pq"
)

// Service is an "area of interest" card with bullet points.
type Service struct {
	Base
	Name          string         `json:"name" yaml:"name"`
	Icon          *string        `json:"icon" yaml:"icon"`
	DescriptionMD *string        `json:"description_md" yaml:"description_md" gorm:"column:description_md"`
	Bullets       pq.StringArray `json:"bullets" yaml:"bullets" gorm:"type:text[]"`
	ShowOnHome    bool           `json:"show_on_home" yaml:"show_on_home"`
	SortOrder     int            `json:"sort_order" yaml:"sort_order"`
}

func (Service) TableName() string { return "services" }

// NewService returns a service with the form defaults.
func NewService() *Service {
	return &Service{Bullets: pq.StringArray{}, ShowOnHome: true}
}

func (s *Service) Normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return invalid("Name is required.")
	}
	s.Icon = Optional(s.Icon)
	s.DescriptionMD = Optional(s.DescriptionMD)
	s.Bullets = cleanList(s.Bullets)
	return nil
}
