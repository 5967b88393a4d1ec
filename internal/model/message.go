package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxMessageLen = 5000

// Message is a contact form submission.
type Message struct {
	ID           string        `json:"id" gorm:"primaryKey;type:uuid"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Subject      *string       `json:"subject"`
	Message      string        `json:"message"`
	WantsConsult bool          `json:"wants_consult"`
	Status       MessageStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (Message) TableName() string { return "messages" }

func NewMessage() *Message { return &Message{Status: MessageNew} }

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Message) Normalize() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	m.Subject = Optional(m.Subject)
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return invalid("Name, email and message are required.")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return invalid("Please enter a valid email address.")
	}
	if len(m.Message) > maxMessageLen {
		return invalid("Message is too long (max %d characters).", maxMessageLen)
	}
	if m.Status == "" {
		m.Status = MessageNew
	}
	if !m.Status.Valid() {
		return invalid("unknown message status %q", m.Status)
	}
	return nil
}
