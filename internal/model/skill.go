package model

import "strings"

// Skill is one tool or discipline with a self-assessed proficiency.
type Skill struct {
	Base
	Name        string  `json:"name" yaml:"name"`
	Category    *string `json:"category" yaml:"category"`
	Proficiency int     `json:"proficiency" yaml:"proficiency"`
	Years       *int    `json:"years" yaml:"years"`
	Icon        *string `json:"icon" yaml:"icon"`
	Description *string `json:"description" yaml:"description"`
	ShowOnHome  bool    `json:"show_on_home" yaml:"show_on_home"`
}

func (Skill) TableName() string { return "skills" }

// NewSkill returns a skill with the form defaults.
func NewSkill() *Skill {
	return &Skill{Proficiency: 50}
}

// Group is the category a skill is listed under.
func (s *Skill) Group() string {
	if s.Category == nil {
		return "Other"
	}
	return *s.Category
}

func (s *Skill) Normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return invalid("Name is required.")
	}
	s.Category = Optional(s.Category)
	s.Icon = Optional(s.Icon)
	s.Description = Optional(s.Description)
	s.Proficiency = clamp(s.Proficiency, 0, 100)
	if s.Years != nil && *s.Years < 0 {
		return invalid("Years cannot be negative.")
	}
	return nil
}
