package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/model"
)

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
	})
}

// contact stores the submission and emails it in the background when a
// notifier is set.
// Fragments are returned with 200 so HTMX swaps them in.
func (s *Server) contact(c *gin.Context) {
	msg := model.NewMessage()
	msg.Name = c.PostForm("fullName")
	msg.Email = c.PostForm("email")
	msg.Subject = model.String(c.PostForm("subject"))
	msg.Message = c.PostForm("message")
	msg.WantsConsult = c.PostForm("wantsConsult") != ""

	if err := msg.Normalize(); err != nil {
		var ve *model.ValidationError
		text := "Please check the form and try again."
		if errors.As(err, &ve) {
			text = ve.Msg
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": text})
		return
	}
	msg.Status = model.MessageNew

	if err := s.Store.Messages.Create(c.Request.Context(), msg); err != nil {
		log.Printf("Error saving contact message from %s: %v", s.clientHash(c), err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	if s.Notifier != nil {
		sent := *msg
		go func() {
			if err := s.Notifier.Send(&sent); err != nil {
				// the message is stored; the dashboard still shows it
				log.Printf("Error sending email for message %s: %v", sent.ID, err)
			}
		}()
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
