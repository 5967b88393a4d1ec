package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

// field is one input of an admin editor form. Key is the JSON name of the
// entity field it fills. Kind is an HTML input type, or "textarea",
// "lines" (one list item per line), "select" or "checkbox".
type field struct {
	Key     string
	Label   string
	Kind    string
	Options []string
	Hint    string
}

// formField is a field with the value it renders with.
type formField struct {
	Key     string
	Label   string
	Kind    string
	Options []string
	Hint    string
	Value   string
	Checked bool
}

var projectFields = []field{
	{Key: "title", Label: "Title", Kind: "text"},
	{Key: "slug", Label: "Slug", Kind: "text", Hint: "Leave empty to generate it from the title."},
	{Key: "summary", Label: "Summary", Kind: "textarea"},
	{Key: "category", Label: "Category", Kind: "text"},
	{Key: "tech_stack", Label: "Tech stack", Kind: "lines", Hint: "One per line."},
	{Key: "github_url", Label: "GitHub URL", Kind: "url"},
	{Key: "demo_url", Label: "Demo URL", Kind: "url"},
	{Key: "security_score", Label: "Security score", Kind: "number"},
	{Key: "status", Label: "Status", Kind: "select", Options: []string{
		string(model.ProjectActive), string(model.ProjectInProgress), string(model.ProjectArchived),
	}},
	{Key: "visibility", Label: "Visibility", Kind: "select", Options: []string{
		string(model.VisibilityPublic), string(model.VisibilityPrivate), string(model.VisibilityPassword),
	}},
	{Key: "access_password", Label: "Access password", Kind: "password",
		Hint: "Only used with password visibility. Leave empty to keep the current one."},
	{Key: "featured", Label: "Featured", Kind: "checkbox"},
	{Key: "content_md", Label: "Content (markdown)", Kind: "textarea"},
}

var blogFields = []field{
	{Key: "title", Label: "Title", Kind: "text"},
	{Key: "slug", Label: "Slug", Kind: "text", Hint: "Leave empty to generate it from the title."},
	{Key: "excerpt", Label: "Excerpt", Kind: "textarea"},
	{Key: "category", Label: "Category", Kind: "text"},
	{Key: "tags", Label: "Tags", Kind: "lines", Hint: "One per line."},
	{Key: "severity", Label: "Severity", Kind: "select", Options: []string{
		string(model.SeverityCritical), string(model.SeverityHigh), string(model.SeverityMedium), string(model.SeverityLow),
	}},
	{Key: "status", Label: "Status", Kind: "select", Options: []string{
		string(model.StatusDraft), string(model.StatusPublished),
	}},
	{Key: "cover_url", Label: "Cover image URL", Kind: "url"},
	{Key: "reading_time_minutes", Label: "Reading time (minutes)", Kind: "number", Hint: "Leave empty to compute it."},
	{Key: "content_md", Label: "Content (markdown)", Kind: "textarea"},
}

var certificationFields = []field{
	{Key: "name", Label: "Name", Kind: "text"},
	{Key: "issuing_org", Label: "Issuing organization", Kind: "text"},
	{Key: "category", Label: "Category", Kind: "text"},
	{Key: "prestige", Label: "Prestige", Kind: "number", Hint: "Higher sorts first."},
	{Key: "obtained_at", Label: "Obtained", Kind: "date"},
	{Key: "expires_at", Label: "Expires", Kind: "date"},
	{Key: "credential_id", Label: "Credential ID", Kind: "text"},
	{Key: "verify_url", Label: "Verify URL", Kind: "url"},
	{Key: "logo_url", Label: "Logo URL", Kind: "url"},
	{Key: "pdf_url", Label: "PDF URL", Kind: "url"},
	{Key: "description", Label: "Description", Kind: "textarea"},
}

var skillFields = []field{
	{Key: "name", Label: "Name", Kind: "text"},
	{Key: "category", Label: "Category", Kind: "text"},
	{Key: "proficiency", Label: "Proficiency", Kind: "number", Hint: "0 to 100."},
	{Key: "years", Label: "Years", Kind: "number"},
	{Key: "icon", Label: "Icon", Kind: "text"},
	{Key: "description", Label: "Description", Kind: "textarea"},
	{Key: "show_on_home", Label: "Show on home page", Kind: "checkbox"},
}

var serviceFields = []field{
	{Key: "name", Label: "Name", Kind: "text"},
	{Key: "icon", Label: "Icon", Kind: "text"},
	{Key: "description_md", Label: "Description (markdown)", Kind: "textarea"},
	{Key: "bullets", Label: "Bullets", Kind: "lines", Hint: "One per line."},
	{Key: "sort_order", Label: "Sort order", Kind: "number"},
	{Key: "show_on_home", Label: "Show on home page", Kind: "checkbox"},
}

var testimonialFields = []field{
	{Key: "client_name", Label: "Client name", Kind: "text"},
	{Key: "role_title", Label: "Role", Kind: "text"},
	{Key: "company", Label: "Company", Kind: "text"},
	{Key: "quote", Label: "Quote", Kind: "textarea"},
	{Key: "rating", Label: "Rating", Kind: "number", Hint: "1 to 5."},
	{Key: "photo_url", Label: "Photo URL", Kind: "url"},
	{Key: "received_at", Label: "Received", Kind: "date"},
	{Key: "show_on_home", Label: "Show on home page", Kind: "checkbox"},
	{Key: "verified", Label: "Verified", Kind: "checkbox"},
}

var mediaFields = []field{
	{Key: "url", Label: "URL", Kind: "url"},
	{Key: "alt", Label: "Alt text", Kind: "text"},
}

var messageStatuses = []string{
	string(model.MessageNew), string(model.MessageRead), string(model.MessageArchived), string(model.MessageSpam),
}

// editor is the form side of a resource. An empty id means a new entry.
type editor interface {
	item(ctx context.Context, id string) (map[string]any, error)
	saveObject(ctx context.Context, id string, obj map[string]any) error
}

// formObject reads a posted editor form into the JSON object the resource
// decoders take. Empty numbers and dates become null; list fields are split
// one item per line.
func formObject(fields []field, form url.Values) (map[string]any, error) {
	obj := make(map[string]any, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(form.Get(f.Key))
		switch f.Kind {
		case "checkbox":
			obj[f.Key] = v != ""
		case "lines":
			obj[f.Key] = model.SplitLines(form.Get(f.Key))
		case "number":
			if v == "" {
				obj[f.Key] = nil
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, model.ValidationErrorf("%s must be a whole number.", f.Label)
			}
			obj[f.Key] = n
		case "date":
			if v == "" {
				obj[f.Key] = nil
				continue
			}
			obj[f.Key] = v
		case "password":
			if v != "" {
				obj[f.Key] = v
			}
		default:
			obj[f.Key] = v
		}
	}
	return obj, nil
}

// postedValues keeps what the user typed so a rejected form renders again
// with it.
func postedValues(fields []field, form url.Values) map[string]any {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Kind == "checkbox" {
			values[f.Key] = form.Get(f.Key) != ""
			continue
		}
		values[f.Key] = form.Get(f.Key)
	}
	return values
}

func formFields(fields []field, values map[string]any) []formField {
	out := make([]formField, 0, len(fields))
	for _, f := range fields {
		ff := formField{Key: f.Key, Label: f.Label, Kind: f.Kind, Options: f.Options, Hint: f.Hint}
		switch v := values[f.Key].(type) {
		case string:
			ff.Value = v
		case float64:
			ff.Value = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			ff.Checked = v
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			ff.Value = strings.Join(items, "\n")
		}
		if f.Kind == "password" {
			ff.Value = ""
		}
		out = append(out, ff)
	}
	return out
}

// toObject re-reads v through its JSON form, which is what the editor fields
// are keyed on.
func toObject(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	obj := map[string]any{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *Server) renderSection(c *gin.Context, code int, sec section, editID string, form []formField, formError string) {
	q := strings.TrimSpace(c.Query("q"))
	rows, err := sec.rows(c.Request.Context(), s.Store, store.ListOptions{Query: q})
	if err != nil {
		log.Printf("Error loading %s: %v", sec.Name, err)
		s.render(c, http.StatusInternalServerError, "admin-error.html", "Error", gin.H{
			"error": "Failed to load " + strings.ToLower(sec.Title),
		})
		return
	}
	s.render(c, code, "admin-section.html", sec.Title, gin.H{
		"section":         sec,
		"rows":            rows,
		"query":           q,
		"sections":        sections,
		"canEdit":         auth.CanEditContent(auth.CurrentProfile(c).Role),
		"form":            form,
		"editID":          editID,
		"formError":       formError,
		"messageStatuses": messageStatuses,
	})
}

func (s *Server) section(sec section) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form []formField
		editID := strings.TrimSpace(c.Query("edit"))
		if len(sec.Fields) > 0 {
			values, err := s.editors[sec.Name].item(c.Request.Context(), editID)
			if err != nil {
				code, msg := errorStatus(err)
				if code == http.StatusInternalServerError {
					log.Printf("Error loading %s %s: %v", sec.Name, editID, err)
				}
				s.render(c, code, "admin-error.html", "Error", gin.H{"error": msg})
				return
			}
			form = formFields(sec.Fields, values)
		}
		s.renderSection(c, http.StatusOK, sec, editID, form, "")
	}
}

// saveSection handles the editor form of a section page. On success it
// redirects back to the list; otherwise the form renders again with the
// error and the submitted values.
func (s *Server) saveSection(sec section) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			s.render(c, http.StatusBadRequest, "admin-error.html", "Error", gin.H{"error": "Invalid form."})
			return
		}
		form := c.Request.PostForm
		id := strings.TrimSpace(form.Get("id"))

		obj, err := formObject(sec.Fields, form)
		if err == nil {
			err = s.editors[sec.Name].saveObject(c.Request.Context(), id, obj)
		}
		if err != nil {
			code, msg := errorStatus(err)
			if code == http.StatusInternalServerError {
				log.Printf("Error saving %s: %v", sec.Name, err)
			}
			s.renderSection(c, code, sec, id, formFields(sec.Fields, postedValues(sec.Fields, form)), msg)
			return
		}
		log.Printf("%s saved from the dashboard by %s", sec.Name, s.clientHash(c))
		c.Redirect(http.StatusSeeOther, "/admin/"+sec.Name)
	}
}

// errorStatus maps store and validation errors onto a status code and a
// message safe to show.
func errorStatus(err error) (int, string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "A record with that slug or name already exists."
	}
	return http.StatusInternalServerError, "internal server error"
}
