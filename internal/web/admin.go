package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

// exportLimit is the per-entity row cap of the content export.
const exportLimit = 1000

// row is one line of an admin list page.
type row struct {
	ID      string
	Title   string
	Detail  string
	Status  string
	Updated time.Time
	Link    string
}

// section is an admin list page backed by one JSON resource. Sections with
// Fields also get an editor form.
type section struct {
	Name   string
	Title  string
	Fields []field
	rows   func(ctx context.Context, st *store.Store, opts store.ListOptions) ([]row, error)
	count  func(ctx context.Context, st *store.Store) (int64, error)
}

func listRows[T any](repo func(*store.Store) store.Repository[T], conv func(*T) row) func(context.Context, *store.Store, store.ListOptions) ([]row, error) {
	return func(ctx context.Context, st *store.Store, opts store.ListOptions) ([]row, error) {
		items, err := repo(st).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		out := make([]row, 0, len(items))
		for i := range items {
			out = append(out, conv(&items[i]))
		}
		return out, nil
	}
}

func countRows[T any](repo func(*store.Store) store.Repository[T]) func(context.Context, *store.Store) (int64, error) {
	return func(ctx context.Context, st *store.Store) (int64, error) {
		return repo(st).Count(ctx)
	}
}

var sections = []section{
	{
		Name: "projects", Title: "Projects",
		Fields: projectFields,
		rows: listRows(func(st *store.Store) store.Repository[model.Project] { return st.Projects }, func(p *model.Project) row {
			return row{ID: p.ID, Title: p.Title, Detail: p.Slug, Status: string(p.Visibility), Updated: p.UpdatedAt, Link: "/projects/" + p.Slug}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Project] { return st.Projects }),
	},
	{
		Name: "blog", Title: "Blog Posts",
		Fields: blogFields,
		rows: listRows(func(st *store.Store) store.Repository[model.BlogPost] { return st.BlogPosts }, func(p *model.BlogPost) row {
			return row{ID: p.ID, Title: p.Title, Detail: p.Severity.Label(), Status: string(p.Status), Updated: p.UpdatedAt, Link: "/blog/" + p.Slug}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.BlogPost] { return st.BlogPosts }),
	},
	{
		Name: "certifications", Title: "Certifications",
		Fields: certificationFields,
		rows: listRows(func(st *store.Store) store.Repository[model.Certification] { return st.Certifications }, func(v *model.Certification) row {
			return row{ID: v.ID, Title: v.Name, Detail: model.Deref(v.IssuingOrg), Status: fmt.Sprintf("prestige %d", v.Prestige), Updated: v.UpdatedAt}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Certification] { return st.Certifications }),
	},
	{
		Name: "skills", Title: "Skills",
		Fields: skillFields,
		rows: listRows(func(st *store.Store) store.Repository[model.Skill] { return st.Skills }, func(v *model.Skill) row {
			return row{ID: v.ID, Title: v.Name, Detail: v.Group(), Status: fmt.Sprintf("%d%%", v.Proficiency), Updated: v.UpdatedAt}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Skill] { return st.Skills }),
	},
	{
		Name: "services", Title: "Services",
		Fields: serviceFields,
		rows: listRows(func(st *store.Store) store.Repository[model.Service] { return st.Services }, func(v *model.Service) row {
			status := "hidden"
			if v.ShowOnHome {
				status = "on home"
			}
			return row{ID: v.ID, Title: v.Name, Detail: strings.Join(v.Bullets, ", "), Status: status, Updated: v.UpdatedAt}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Service] { return st.Services }),
	},
	{
		Name: "testimonials", Title: "Testimonials",
		Fields: testimonialFields,
		rows: listRows(func(st *store.Store) store.Repository[model.Testimonial] { return st.Testimonials }, func(v *model.Testimonial) row {
			return row{ID: v.ID, Title: v.ClientName, Detail: model.Deref(v.Company), Status: fmt.Sprintf("%d/5", v.Rating), Updated: v.UpdatedAt}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Testimonial] { return st.Testimonials }),
	},
	{
		Name: "media", Title: "Media",
		Fields: mediaFields,
		rows: listRows(func(st *store.Store) store.Repository[model.Media] { return st.Media }, func(v *model.Media) row {
			return row{ID: v.ID, Title: v.URL, Detail: model.Deref(v.Alt), Updated: v.CreatedAt, Link: v.URL}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Media] { return st.Media }),
	},
	{
		Name: "messages", Title: "Messages",
		rows: listRows(func(st *store.Store) store.Repository[model.Message] { return st.Messages }, func(v *model.Message) row {
			return row{ID: v.ID, Title: v.Name + " <" + v.Email + ">", Detail: model.Deref(v.Subject), Status: string(v.Status), Updated: v.CreatedAt}
		}),
		count: countRows(func(st *store.Store) store.Repository[model.Message] { return st.Messages }),
	},
}

func (s *Server) loginPage(c *gin.Context) {
	data := gin.H{}
	if c.Query("reason") == "forbidden" {
		data["error"] = "Your account does not have access to that page."
	}
	s.render(c, http.StatusOK, "admin-login.html", "Admin Login", data)
}

func (s *Server) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	p, err := auth.Authenticate(c.Request.Context(), s.Store.Profiles, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Printf("Failed admin login attempt from %s", s.clientHash(c))
		s.Metrics.Login("failure")
		s.render(c, http.StatusUnauthorized, "admin-login.html", "Admin Login", gin.H{
			"error": "Invalid credentials",
			"email": email,
		})
		return
	}
	if err != nil {
		log.Printf("Error during admin login from %s: %v", s.clientHash(c), err)
		s.render(c, http.StatusInternalServerError, "admin-login.html", "Admin Login", gin.H{
			"error": "Sign-in is unavailable right now. Please try again later.",
		})
		return
	}
	if !auth.CanAccessDashboard(p.Role) {
		log.Printf("Admin login refused for %s role from %s", p.Role, s.clientHash(c))
		s.Metrics.Login("forbidden")
		s.render(c, http.StatusForbidden, "admin-login.html", "Admin Login", gin.H{
			"error": "Your account does not have dashboard access.",
		})
		return
	}

	token, err := s.Sessions.Issue(p)
	if err != nil {
		log.Printf("Error issuing session: %v", err)
		s.render(c, http.StatusInternalServerError, "admin-login.html", "Admin Login", gin.H{
			"error": "Sign-in is unavailable right now. Please try again later.",
		})
		return
	}
	s.Sessions.SetCookie(c, token)
	s.Metrics.Login("success")
	log.Printf("Admin login successful from %s", s.clientHash(c))
	c.Redirect(http.StatusFound, "/admin")
}

func (s *Server) logout(c *gin.Context) {
	s.Sessions.ClearCookie(c)
	log.Printf("Admin logout from %s", s.clientHash(c))
	c.Redirect(http.StatusFound, "/admin/login")
}

// visitorStats returns empty stats when tracking is off.
func (s *Server) visitorStats(ctx context.Context) (*analytics.Stats, error) {
	if s.Tracker == nil {
		return &analytics.Stats{TopPaths: []analytics.PathStat{}, RecentVisitors: []analytics.Visit{}}, nil
	}
	return s.Tracker.Stats(ctx)
}

// AdminStats is the dashboard summary served by /admin/api/stats.
type AdminStats struct {
	Content  map[string]int64 `json:"content"`
	Visitors *analytics.Stats `json:"visitors"`
}

func (s *Server) adminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{Content: map[string]int64{}}
	for _, sec := range sections {
		n, err := sec.count(ctx, s.Store)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", sec.Name, err)
		}
		stats.Content[sec.Name] = n
	}
	visitors, err := s.visitorStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("visitor stats: %w", err)
	}
	stats.Visitors = visitors
	return stats, nil
}

func (s *Server) dashboard(c *gin.Context) {
	stats, err := s.adminStats(c.Request.Context())
	if err != nil {
		log.Printf("Error loading admin stats: %v", err)
		s.render(c, http.StatusInternalServerError, "admin-error.html", "Error", gin.H{
			"error": "Failed to load statistics",
		})
		return
	}
	s.render(c, http.StatusOK, "admin-dashboard.html", "Dashboard", gin.H{
		"stats":    stats,
		"sections": sections,
	})
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.adminStats(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) settingsPage(c *gin.Context) {
	settings, err := s.Store.Settings.Get(c.Request.Context())
	obj := model.JSONObject{}
	switch {
	case err == nil:
		obj = settings.Settings
	case !errors.Is(err, store.ErrNotFound):
		log.Printf("Error loading site settings: %v", err)
		s.render(c, http.StatusInternalServerError, "admin-error.html", "Error", gin.H{
			"error": "Failed to load settings",
		})
		return
	}
	s.render(c, http.StatusOK, "admin-settings.html", "Site Settings", gin.H{
		"settings": prettyJSON(obj),
		"sections": sections,
	})
}

func (s *Server) visitorsPage(c *gin.Context) {
	var visitors []analytics.Visit
	if s.Tracker != nil {
		var err error
		visitors, err = s.Tracker.Visitors(c.Request.Context(), 200)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			s.render(c, http.StatusInternalServerError, "admin-error.html", "Error", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
	}
	s.render(c, http.StatusOK, "admin-visitors.html", "Visitors", gin.H{
		"visitors": visitors,
		"tracking": s.Tracker != nil,
		"sections": sections,
	})
}

func (s *Server) usersPage(c *gin.Context) {
	users, err := s.Store.Profiles.List(c.Request.Context(), store.ListOptions{Query: c.Query("q")})
	if err != nil {
		log.Printf("Error loading users: %v", err)
		s.render(c, http.StatusInternalServerError, "admin-error.html", "Error", gin.H{
			"error": "Failed to load users",
		})
		return
	}
	s.render(c, http.StatusOK, "admin-users.html", "Users", gin.H{
		"users":    users,
		"roles":    []model.Role{model.RoleAdmin, model.RoleEditor, model.RoleViewer},
		"sections": sections,
	})
}

// ContentExport is the JSON backup of every content table.
type ContentExport struct {
	ExportedAt     time.Time             `json:"exported_at"`
	Projects       []model.Project       `json:"projects"`
	BlogPosts      []model.BlogPost      `json:"blog_posts"`
	Certifications []model.Certification `json:"certifications"`
	Skills         []model.Skill         `json:"skills"`
	Services       []model.Service       `json:"services"`
	Testimonials   []model.Testimonial   `json:"testimonials"`
	Media          []model.Media         `json:"media"`
	Messages       []model.Message       `json:"messages"`
	Settings       model.JSONObject      `json:"settings"`
}

func (s *Server) contentExport(ctx context.Context) (*ContentExport, error) {
	opts := store.ListOptions{Limit: exportLimit}
	out := &ContentExport{ExportedAt: time.Now().UTC(), Settings: model.JSONObject{}}
	var err error
	if out.Projects, err = s.Store.Projects.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.BlogPosts, err = s.Store.BlogPosts.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.Certifications, err = s.Store.Certifications.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.Skills, err = s.Store.Skills.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.Services, err = s.Store.Services.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.Testimonials, err = s.Store.Testimonials.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.Media, err = s.Store.Media.List(ctx, opts); err != nil {
		return nil, err
	}
	if out.Messages, err = s.Store.Messages.List(ctx, opts); err != nil {
		return nil, err
	}
	settings, err := s.Store.Settings.Get(ctx)
	switch {
	case err == nil:
		out.Settings = settings.Settings
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return out, nil
}

func (s *Server) exportContent(c *gin.Context) {
	export, err := s.contentExport(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=portfolio-content.json")
	log.Printf("Content exported by %s", s.clientHash(c))
	c.JSON(http.StatusOK, export)
}

// Admin statistics export (for backups or analysis)
func (s *Server) exportStats(c *gin.Context) {
	stats, err := s.adminStats(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	log.Printf("Admin stats exported by %s", s.clientHash(c))
	c.JSON(http.StatusOK, stats)
}

func (s *Server) privacyCleanup(c *gin.Context) {
	if s.Tracker == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Visitor tracking is disabled", "removed": 0})
		return
	}
	removed, err := s.Tracker.Cleanup(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	log.Printf("Privacy cleanup run by %s", s.clientHash(c))
	c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
}

func prettyJSON(obj model.JSONObject) string {
	out, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
