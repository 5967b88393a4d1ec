// Package model defines the portfolio's content entities and the rules the
// admin dashboard applies before saving them.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a message that is safe to show to an editor.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidationErrorf builds a ValidationError from a format string.
func ValidationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return ValidationErrorf(format, args...)
}

// now is swapped in tests.
var now = time.Now

// Base carries the columns shared by every editable table.
type Base struct {
	ID        string    `json:"id" yaml:"-" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// BeforeCreate assigns a random UUID when none was provided.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Normalizer is implemented by every entity the dashboard can save.
type Normalizer interface {
	Normalize() error
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace   = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

const maxSlugLen = 80

// Slugify lowercases the input, keeps only letters, digits, whitespace and
// dashes, joins words with single dashes and caps the result at 80 bytes.
func Slugify(input string) string {
	s := strings.TrimSpace(strings.ToLower(input))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// SplitLines turns newline separated editor input into a list, dropping
// blank lines.
func SplitLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Optional trims s and returns nil when nothing is left.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// String returns a pointer to s, or nil for the empty string.
func String(s string) *string {
	return Optional(&s)
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func resolveSlug(slug, title string) (string, error) {
	if s := strings.TrimSpace(slug); s != "" {
		return s, nil
	}
	if s := Slugify(title); s != "" {
		return s, nil
	}
	return "", invalid("Slug is required (or provide a title to auto-generate).")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
