package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media is a library entry pointing at a hosted image or file.
type Media struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	URL       string    `json:"url" gorm:"column:url"`
	Alt       *string   `json:"alt"`
	CreatedAt time.Time `json:"created_at"`
}

func (Media) TableName() string { return "media" }

func NewMedia() *Media { return &Media{} }

func (m *Media) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Media) Normalize() error {
	m.URL = strings.TrimSpace(m.URL)
	if m.URL == "" {
		return invalid("URL is required.")
	}
	if u, err := url.Parse(m.URL); err != nil || u.Scheme == "" {
		return invalid("URL must be absolute.")
	}
	m.Alt = Optional(m.Alt)
	return nil
}
