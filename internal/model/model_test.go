package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":                 "hello-world",
		"  JWT pitfalls: where?!  ":   "jwt-pitfalls-where",
		"a  --  b":                    "a-b",
		"Ünïcode stays out":           "ncode-stays-out",
		"":                            "",
		"OWASP Top 10 in practice!!!": "owasp-top-10-in-practice",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}

	long := Slugify("word " + strings.Repeat("x", 200))
	assert.Len(t, long, 80)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, SplitLines(" one \n\n  two\n  "))
	assert.Equal(t, []string{}, SplitLines(""))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))
	assert.Nil(t, String("   "))
	assert.Equal(t, "x", *String(" x "))
	assert.Equal(t, "", Deref(nil))
}

func TestProjectNormalize(t *testing.T) {
	p := NewProject()
	p.Title = "  Secure Network Design "
	p.Summary = String("  ")
	p.TechStack = []string{"VLAN", " ", " OSPF "}
	score := 140
	p.SecurityScore = &score
	p.AccessPassword = "ignored"

	require.NoError(t, p.Normalize())
	assert.Equal(t, "secure-network-design", p.Slug)
	assert.Equal(t, "Secure Network Design", p.Title)
	assert.Nil(t, p.Summary)
	assert.Equal(t, []string{"VLAN", "OSPF"}, []string(p.TechStack))
	assert.Equal(t, 100, *p.SecurityScore)
	assert.Empty(t, p.AccessPassword, "password dropped unless visibility is password")
	assert.Equal(t, ProjectActive, p.Status)
	assert.Equal(t, VisibilityPublic, p.Visibility)
}

func TestProjectNormalizeErrors(t *testing.T) {
	p := NewProject()
	err := p.Normalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Slug is required (or provide a title to auto-generate).", err.Error())

	p = NewProject()
	p.Title = "Locked"
	p.Visibility = VisibilityPassword
	require.Error(t, p.Normalize(), "password projects need a password")

	p.AccessPassword = "hunter2"
	require.NoError(t, p.Normalize())

	p = NewProject()
	p.Title = "Bad"
	p.Status = "shipped"
	require.ErrorIs(t, p.Normalize(), ErrValidation)
}

func TestProjectKeepsStoredHash(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	p := NewProject()
	p.Title = "Locked"
	p.Visibility = VisibilityPassword
	p.AccessPasswordHash = &hash
	require.NoError(t, p.Normalize())
	assert.Equal(t, hash, *p.AccessPasswordHash)

	p.Visibility = VisibilityPublic
	require.NoError(t, p.Normalize())
	assert.Nil(t, p.AccessPasswordHash)
}

func TestProjectHidesPasswordHash(t *testing.T) {
	hash := "secret-hash"
	p := NewProject()
	p.Title = "x"
	p.AccessPasswordHash = &hash
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")
}

func TestBlogPostPublishedAt(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	p := NewBlogPost()
	p.Title = "Recon workflows"
	p.Status = StatusPublished
	p.ContentMD = String("scan validate enumerate")
	require.NoError(t, p.Normalize())
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, fixed, *p.PublishedAt)
	require.NotNil(t, p.ReadingTimeMinutes)
	assert.Equal(t, 1, *p.ReadingTimeMinutes)

	earlier := fixed.Add(-48 * time.Hour)
	p.PublishedAt = &earlier
	require.NoError(t, p.Normalize())
	assert.Equal(t, earlier, *p.PublishedAt, "existing publish time is kept")

	p.Status = StatusDraft
	require.NoError(t, p.Normalize())
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, "RECON-WORKFLOWS", p.Reference())
}

func TestSimpleEntities(t *testing.T) {
	s := NewSkill()
	s.Name = "Nmap"
	s.Proficiency = 120
	require.NoError(t, s.Normalize())
	assert.Equal(t, 100, s.Proficiency)
	assert.Equal(t, "Other", s.Group())

	s.Proficiency = -3
	require.NoError(t, s.Normalize())
	assert.Equal(t, 0, s.Proficiency)

	tm := NewTestimonial()
	tm.ClientName = "Ada"
	tm.Quote = "Great"
	tm.Rating = 9
	require.NoError(t, tm.Normalize())
	assert.Equal(t, 5, tm.Rating)
	tm.Rating = 0
	require.NoError(t, tm.Normalize())
	assert.Equal(t, 1, tm.Rating)

	svc := NewService()
	assert.True(t, svc.ShowOnHome)
	svc.Name = "Labs"
	svc.Bullets = SplitLines("a\n\nb")
	require.NoError(t, svc.Normalize())
	assert.Equal(t, []string{"a", "b"}, []string(svc.Bullets))

	c := NewCertification()
	assert.Equal(t, 50, c.Prestige)
	require.ErrorIs(t, c.Normalize(), ErrValidation)

	m := NewMedia()
	m.URL = "/relative.png"
	require.ErrorIs(t, m.Normalize(), ErrValidation)
	m.URL = "https://cdn.example.com/a.png"
	require.NoError(t, m.Normalize())
}

func TestCertificationDates(t *testing.T) {
	c := NewCertification()
	c.Name = "CTF"
	obtained, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	expires, err := ParseDate("2023-01-01")
	require.NoError(t, err)
	c.ObtainedAt, c.ExpiresAt = &obtained, &expires
	require.ErrorIs(t, c.Normalize(), ErrValidation)

	c.ExpiresAt = nil
	require.NoError(t, c.Normalize())
	assert.Equal(t, "2024", c.Year())
}

func TestMessageNormalize(t *testing.T) {
	m := NewMessage()
	m.Name = "Ada"
	m.Email = "not-an-email"
	m.Message = "hello"
	require.ErrorIs(t, m.Normalize(), ErrValidation)

	m.Email = " ada@example.com "
	require.NoError(t, m.Normalize())
	assert.Equal(t, "ada@example.com", m.Email)
	assert.Equal(t, MessageNew, m.Status)
}

func TestProfileNormalize(t *testing.T) {
	p := &Profile{Email: " Admin@Example.com "}
	require.NoError(t, p.Normalize())
	assert.Equal(t, "admin@example.com", p.Email)
	assert.Equal(t, RoleViewer, p.Role)
	assert.Equal(t, "admin@example.com", p.Name())

	_, err := ParseRole("root")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDateCodecs(t *testing.T) {
	var holder struct {
		At *Date `json:"at" yaml:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-02-29"}`), &holder))
	assert.Equal(t, "2024-02-29", holder.At.String())

	out, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-02-29"}`, string(out))

	holder.At = nil
	require.NoError(t, yaml.Unmarshal([]byte("at: 2023-12-31\n"), &holder))
	assert.Equal(t, "2023-12-31", holder.At.String())

	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-01-02", d.String())
	assert.Error(t, d.Scan(42))
}

func TestJSONObject(t *testing.T) {
	_, err := ParseJSONObject([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrValidation)
	_, err = ParseJSONObject([]byte(`{"a":`))
	require.ErrorIs(t, err, ErrValidation)

	obj, err := ParseJSONObject([]byte(`{"hero":{"name":"Ada","roles":["x"],"stats":[{"label":"Labs","value":3}]},"contact":{"email":"a@b.c"},"about":"wrong type"}`))
	require.NoError(t, err)

	content := obj.Content()
	assert.Equal(t, "Ada", content.Hero.Name)
	assert.Equal(t, []string{"x"}, content.Hero.Roles)
	assert.Equal(t, 3, content.Hero.Stats[0].Value)
	assert.Equal(t, "a@b.c", content.Contact.Email)
	assert.Empty(t, content.About.Heading)

	var scanned JSONObject
	require.NoError(t, scanned.Scan([]byte(`{"k":1}`)))
	assert.EqualValues(t, 1, scanned["k"])

	v, err := JSONObject(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)

	assert.Contains(t, SettingsTemplate(), "hero")
}
