package web

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

func TestFormObject(t *testing.T) {
	form := url.Values{
		"title":          {"  Home Lab  "},
		"tech_stack":     {"Go\r\n\r\n  Wazuh \n"},
		"security_score": {"80"},
		"github_url":     {""},
		"featured":       {"on"},
	}
	obj, err := formObject(projectFields, form)
	require.NoError(t, err)
	assert.Equal(t, "Home Lab", obj["title"])
	assert.Equal(t, []string{"Go", "Wazuh"}, obj["tech_stack"])
	assert.Equal(t, 80, obj["security_score"])
	assert.Equal(t, "", obj["github_url"])
	assert.Equal(t, true, obj["featured"])
	assert.NotContains(t, obj, "access_password")

	obj, err = formObject(certificationFields, url.Values{"name": {"OSCP"}, "obtained_at": {""}})
	require.NoError(t, err)
	assert.Contains(t, obj, "obtained_at")
	assert.Nil(t, obj["obtained_at"])
	assert.Nil(t, obj["prestige"])

	_, err = formObject(projectFields, url.Values{"security_score": {"lots"}})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.EqualError(t, err, "Security score must be a whole number.")
}

func TestFormFields(t *testing.T) {
	fields := formFields(projectFields, map[string]any{
		"title":           "Home Lab",
		"tech_stack":      []any{"Go", "Wazuh"},
		"security_score":  float64(80),
		"featured":        true,
		"access_password": "never shown",
	})
	byKey := map[string]formField{}
	for _, f := range fields {
		byKey[f.Key] = f
	}
	assert.Equal(t, "Home Lab", byKey["title"].Value)
	assert.Equal(t, "Go\nWazuh", byKey["tech_stack"].Value)
	assert.Equal(t, "80", byKey["security_score"].Value)
	assert.True(t, byKey["featured"].Checked)
	assert.Empty(t, byKey["access_password"].Value)
	assert.Empty(t, byKey["summary"].Value)
}

func TestSectionEditor(t *testing.T) {
	e := newTestEnv(t)
	_, editor := e.user(t, "editor@example.com", model.RoleEditor)
	ctx := context.Background()

	w := e.get("/admin/projects", editor)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="tech_stack"`)
	assert.Contains(t, body, `<option value="active" selected>`)
	assert.Contains(t, body, `type="password" name="access_password"`)

	w = e.postForm("/admin/projects", url.Values{
		"title":          {"Form Project"},
		"tech_stack":     {"Go\n\n Wazuh \n"},
		"status":         {"in_progress"},
		"visibility":     {"public"},
		"security_score": {"80"},
		"featured":       {"on"},
	}, editor)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin/projects", w.Header().Get("Location"))

	p, err := e.st.Projects.BySlug(ctx, "form-project")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Wazuh"}, []string(p.TechStack))
	assert.Equal(t, model.ProjectInProgress, p.Status)
	assert.True(t, p.Featured)
	require.NotNil(t, p.SecurityScore)
	assert.Equal(t, 80, *p.SecurityScore)

	w = e.get("/admin/projects?edit="+p.ID, editor)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "Edit entry")
	assert.Contains(t, body, "Go\nWazuh</textarea>")
	assert.Contains(t, body, `value="80"`)
	assert.Contains(t, body, `<option value="in_progress" selected>`)

	w = e.postForm("/admin/projects", url.Values{
		"id":             {p.ID},
		"title":          {"Renamed"},
		"security_score": {"lots"},
	}, editor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Security score must be a whole number.")
	assert.Contains(t, w.Body.String(), `value="Renamed"`)

	w = e.postForm("/admin/projects", url.Values{
		"id":         {p.ID},
		"title":      {"Renamed"},
		"status":     {"bogus"},
		"visibility": {"public"},
	}, editor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	stored, err := e.st.Projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Form Project", stored.Title)

	// unchecked boxes and emptied lists are saved as such
	w = e.postForm("/admin/projects", url.Values{
		"id":         {p.ID},
		"title":      {"Form Project"},
		"slug":       {"form-project"},
		"status":     {"active"},
		"visibility": {"public"},
	}, editor)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	stored, err = e.st.Projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Featured)
	assert.Empty(t, stored.TechStack)
	assert.Nil(t, stored.SecurityScore)

	w = e.postForm("/admin/projects", url.Values{"title": {"Form Project"}, "status": {"active"}, "visibility": {"public"}}, editor)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusNotFound, e.get("/admin/projects?edit=missing", editor).Code)
}

func TestSectionEditorKeepsProjectPassword(t *testing.T) {
	e := newTestEnv(t)
	_, editor := e.user(t, "editor@example.com", model.RoleEditor)
	ctx := context.Background()

	w := e.postForm("/admin/projects", url.Values{
		"title":           {"Vault Notes"},
		"status":          {"active"},
		"visibility":      {"password"},
		"access_password": {"s3cret-pass"},
	}, editor)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	p, err := e.st.Projects.BySlug(ctx, "vault-notes")
	require.NoError(t, err)

	w = e.get("/admin/projects?edit="+p.ID, editor)
	assert.NotContains(t, w.Body.String(), "s3cret-pass")

	w = e.postForm("/admin/projects", url.Values{
		"id":         {p.ID},
		"title":      {"Vault Notes"},
		"summary":    {"still locked"},
		"status":     {"active"},
		"visibility": {"password"},
	}, editor)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	stored, err := e.st.Projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckProject(stored, "s3cret-pass"))
	assert.Equal(t, "still locked", model.Deref(stored.Summary))
}

func TestSectionEditorDates(t *testing.T) {
	e := newTestEnv(t)
	_, editor := e.user(t, "editor@example.com", model.RoleEditor)

	w := e.postForm("/admin/certifications", url.Values{
		"name":        {"OSCP"},
		"obtained_at": {"2024-05-01"},
	}, editor)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	certs, err := e.st.Certifications.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, 50, certs[0].Prestige)
	require.NotNil(t, certs[0].ObtainedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), certs[0].ObtainedAt.Time)
	assert.Nil(t, certs[0].ExpiresAt)

	w = e.postForm("/admin/certifications", url.Values{"name": {"CISSP"}, "obtained_at": {"May 2024"}}, editor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "want YYYY-MM-DD")
}

func TestMessagesHaveNoEditor(t *testing.T) {
	e := newTestEnv(t)
	_, editor := e.user(t, "editor@example.com", model.RoleEditor)
	msg := &model.Message{Name: "Ada", Email: "ada@example.com", Message: "Hi"}
	require.NoError(t, msg.Normalize())
	require.NoError(t, e.st.Messages.Create(context.Background(), msg))

	body := e.get("/admin/messages", editor).Body.String()
	assert.Contains(t, body, `data-status="`+msg.ID+`"`)
	assert.NotContains(t, body, `id="editor"`)
	assert.Equal(t, http.StatusNotFound, e.postForm("/admin/messages", url.Values{"name": {"x"}}, editor).Code)
}
