package notify

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/model"
)

func TestSendDisabled(t *testing.T) {
	m := NewMailer(config.SMTP{Host: "smtp.example.com", Port: "587"})
	assert.False(t, m.Enabled())
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail called while disabled")
		return nil
	}
	assert.NoError(t, m.Send(&model.Message{}))
}

func TestSendComposesMessage(t *testing.T) {
	m := NewMailer(config.SMTP{
		Host: "smtp.example.com", Port: "587",
		User: "site@example.com", Pass: "app-pass",
		ToEmail: "owner@example.com",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	msg := &model.Message{
		Name:         "Ada\r\nBcc: evil@example.com",
		Email:        "ada@example.com",
		Subject:      model.String("Pentest"),
		Message:      "Can we talk?",
		WantsConsult: true,
	}
	require.NoError(t, m.Send(msg))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)

	raw := string(gotMsg)
	assert.Contains(t, raw, "Subject: Portfolio Contact: Ada  Bcc: evil@example.com - Pentest\r\n")
	assert.Contains(t, raw, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, raw, "Wants a consult: yes")
	assert.NotContains(t, raw, "\r\nBcc:")
}

func TestSendFallsBackToUser(t *testing.T) {
	m := NewMailer(config.SMTP{Host: "h", Port: "25", User: "me@example.com", Pass: "p"})
	var gotTo []string
	m.sendMail = func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		gotTo = to
		return errors.New("dial failed")
	}
	err := m.Send(&model.Message{Name: "x", Email: "x@example.com", Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, []string{"me@example.com"}, gotTo)
}
