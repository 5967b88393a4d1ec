package model

import "strings"

// ContentStatus is the publication state of a blog post.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

func (s ContentStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Severity labels an incident report.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Label is the capitalized form shown on report cards.
func (s Severity) Label() string {
	if s == "" {
		return "Medium"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive     ProjectStatus = "active"
	ProjectArchived   ProjectStatus = "archived"
	ProjectInProgress ProjectStatus = "in_progress"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectInProgress:
		return true
	}
	return false
}

// Visibility controls who can open a project page.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityPassword Visibility = "password"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityPassword:
		return true
	}
	return false
}

// MessageStatus tracks the triage state of a contact message.
type MessageStatus string

const (
	MessageNew      MessageStatus = "new"
	MessageRead     MessageStatus = "read"
	MessageArchived MessageStatus = "archived"
	MessageSpam     MessageStatus = "spam"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageNew, MessageRead, MessageArchived, MessageSpam:
		return true
	}
	return false
}

// Role is a dashboard user's access level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", invalid("unknown role %q (want admin, editor or viewer)", s)
	}
	return r, nil
}
