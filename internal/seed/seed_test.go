package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/Zachkp/portfolio/internal/store/memstore"
)

const doc = `
projects:
  - title: Secure Network Architecture
    category: Network Security
    tech_stack: [pfSense, VLANs, Suricata]
    featured: true
  - title: Red Team Notes
    slug: red-team-notes
    visibility: password
    access_password: letmein-please
blog_posts:
  - slug: rep-001
    title: Phishing Campaign Analysis
    severity: high
    status: published
    content_md: |
      # Summary
      A short report.
certifications:
  - name: CompTIA Security+
    issuing_org: CompTIA
    obtained_at: 2024-05-01
skills:
  - name: Wireshark
    category: Network Security
    proficiency: 140
services:
  - name: Security Assessments
    bullets: [" Scoping ", "", "Reporting"]
testimonials:
  - client_name: Jane Doe
    quote: Thorough and clear.
settings:
  hero:
    name: Zach
    roles: [Student, CTF Player]
`

func TestApply(t *testing.T) {
	st := memstore.New()
	s := New(st)
	ctx := context.Background()

	res, err := s.Apply(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 7, Settings: true}, res)

	p, err := st.Projects.BySlug(ctx, "secure-network-architecture")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectActive, p.Status)
	assert.Equal(t, []string{"pfSense", "VLANs", "Suricata"}, []string(p.TechStack))

	locked, err := st.Projects.BySlug(ctx, "red-team-notes")
	require.NoError(t, err)
	assert.True(t, auth.CheckProject(locked, "letmein-please"))

	post, err := st.BlogPosts.PublishedBySlug(ctx, "rep-001")
	require.NoError(t, err)
	require.NotNil(t, post.ReadingTimeMinutes)
	assert.Equal(t, 1, *post.ReadingTimeMinutes)

	certs, _ := st.Certifications.List(ctx, store.ListOptions{})
	require.Len(t, certs, 1)
	assert.Equal(t, 50, certs[0].Prestige)
	assert.Equal(t, "2024", certs[0].Year())

	skills, _ := st.Skills.List(ctx, store.ListOptions{})
	require.Len(t, skills, 1)
	assert.Equal(t, 100, skills[0].Proficiency)

	services, _ := st.Services.OnHome(ctx)
	require.Len(t, services, 1)
	assert.Equal(t, []string{"Scoping", "Reporting"}, []string(services[0].Bullets))

	settings, _ := st.Settings.Get(ctx)
	assert.Equal(t, "Zach", settings.Settings.Content().Hero.Name)

	// second run updates the slugged entities and skips the rest
	res, err = s.Apply(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 3, Skipped: 4, Settings: true}, res)
	n, _ := st.Certifications.Count(ctx)
	assert.Equal(t, int64(1), n)
}

func TestApplyKeepsStoredProjectPassword(t *testing.T) {
	st := memstore.New()
	s := New(st)
	ctx := context.Background()

	_, err := s.Apply(ctx, strings.NewReader(doc))
	require.NoError(t, err)

	res, err := s.Apply(ctx, strings.NewReader(`projects:
  - title: Red Team Notes
    visibility: password
    summary: Notes from past engagements.
`))
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, res)

	locked, err := st.Projects.BySlug(ctx, "red-team-notes")
	require.NoError(t, err)
	require.NotNil(t, locked.Summary)
	assert.Equal(t, "Notes from past engagements.", *locked.Summary)
	assert.True(t, auth.CheckProject(locked, "letmein-please"))

	// a new password project still needs one
	_, err = s.Apply(ctx, strings.NewReader("projects:\n  - title: Fresh\n    visibility: password\n"))
	assert.ErrorIs(t, err, model.ErrValidation)

	hash, err := auth.HashPassword("from-a-hash")
	require.NoError(t, err)
	_, err = s.Apply(ctx, strings.NewReader("projects:\n  - title: Hashed\n    visibility: password\n    access_password: "+hash+"\n"))
	require.NoError(t, err)
	hashed, err := st.Projects.BySlug(ctx, "hashed")
	require.NoError(t, err)
	assert.True(t, auth.CheckProject(hashed, "from-a-hash"))
}

func TestApplyReportsBadEntry(t *testing.T) {
	s := New(memstore.New())
	_, err := s.Apply(context.Background(), strings.NewReader("skills:\n  - category: Web\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "skill #1 (line 2)")

	_, err = s.Apply(context.Background(), strings.NewReader("projects: [\n"))
	assert.Error(t, err)
}

func TestApplyEmpty(t *testing.T) {
	res, err := New(memstore.New()).Apply(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yml")
	require.NoError(t, os.WriteFile(path, []byte("skills:\n  - name: Nmap\n"), 0o644))

	st := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(st).Watch(ctx, path) }()

	count := func() int64 {
		n, _ := st.Skills.Count(context.Background())
		return n
	}
	require.Eventually(t, func() bool { return count() == 1 }, 5*time.Second, 20*time.Millisecond)

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("skills:\n  - name: Nmap\n  - name: Burp Suite\n"), 0o644))
	require.Eventually(t, func() bool { return count() == 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
