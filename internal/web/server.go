// Package web serves the public portfolio pages, the HTMX contact form and
// the role-gated admin dashboard.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/fetch"
	"github.com/Zachkp/portfolio/internal/importer"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/pdftext"
	"github.com/Zachkp/portfolio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps is everything the handlers need. Tracker may be nil, in which case
// visitor tracking and visitor stats are off.
type Deps struct {
	Config   *config.Config
	Store    *store.Store
	Sessions *auth.Sessions
	Unlocks  *auth.UnlockTokens
	Hasher   *analytics.Hasher
	Tracker  *analytics.Tracker
	Metrics  *metrics.Metrics
	Notifier notify.Notifier
	Importer *importer.Importer
	PDF      *pdftext.Extractor
}

type Server struct {
	Deps
	engine  *gin.Engine
	editors map[string]editor
}

// New builds the gin engine with every route registered.
func New(d Deps) (*Server, error) {
	if d.Config == nil || d.Store == nil || d.Sessions == nil || d.Unlocks == nil || d.Hasher == nil {
		return nil, errors.New("web: config, store, sessions, unlock tokens and hasher are required")
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	s := &Server{Deps: d, engine: r, editors: map[string]editor{}}
	s.routes()
	return s, nil
}

// Handler returns the engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine
	r.Use(s.Metrics.Middleware())
	if s.Tracker != nil {
		r.Use(s.Tracker.Middleware())
	}

	static, _ := fs.Sub(staticFS, "static")
	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.home)
	r.GET("/projects", s.projects)
	r.GET("/projects/:slug", s.project)
	r.POST("/projects/:slug/unlock", s.unlockProject)
	r.GET("/blog", s.blog)
	r.GET("/blog/:slug", s.blogPost)
	r.GET("/certifications", s.certifications)
	r.GET("/skills", s.skills)
	r.GET("/services", s.services)
	r.GET("/about", s.about)
	r.GET("/vault", s.page("vault.html", "The Vault"))
	r.GET("/privacy", s.page("privacy.html", "Privacy Policy"))

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.contact)

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	r.GET("/admin/login", s.loginPage)
	r.POST("/admin/login", s.login)
	r.GET("/admin/logout", s.logout)

	admin := r.Group("/admin",
		s.Sessions.RequireSession(s.Store.Profiles),
		auth.RequireRole(model.RoleAdmin, model.RoleEditor),
	)
	admin.GET("", s.dashboard)
	admin.GET("/dashboard", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/admin") })
	for _, sec := range sections {
		admin.GET("/"+sec.Name, s.section(sec))
		if len(sec.Fields) > 0 {
			admin.POST("/"+sec.Name, s.saveSection(sec))
		}
	}
	admin.GET("/settings", s.settingsPage)
	admin.GET("/visitors", s.visitorsPage)
	admin.GET("/users", auth.RequireRole(model.RoleAdmin), s.usersPage)
	admin.GET("/export/content", s.exportContent)
	admin.GET("/export/stats", s.exportStats)
	admin.POST("/privacy/cleanup", s.privacyCleanup)

	api := admin.Group("/api")
	api.GET("/stats", s.stats)
	registerResource[model.Project](api, s, "projects", s.Store.Projects, model.NewProject, sealProject)
	registerResource[model.BlogPost](api, s, "blog", s.Store.BlogPosts, model.NewBlogPost, nil)
	registerResource[model.Certification](api, s, "certifications", s.Store.Certifications, model.NewCertification, nil)
	registerResource[model.Skill](api, s, "skills", s.Store.Skills, model.NewSkill, nil)
	registerResource[model.Service](api, s, "services", s.Store.Services, model.NewService, nil)
	registerResource[model.Testimonial](api, s, "testimonials", s.Store.Testimonials, model.NewTestimonial, nil)
	registerResource[model.Media](api, s, "media", s.Store.Media, model.NewMedia, nil)
	registerResource[model.Message](api, s, "messages", s.Store.Messages, model.NewMessage, nil)
	api.PATCH("/messages/:id/status", s.setMessageStatus)

	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)
	api.GET("/settings/template", s.settingsTemplate)

	users := api.Group("/users", auth.RequireRole(model.RoleAdmin))
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.PUT("/:id/role", s.setUserRole)

	api.POST("/import/notion", s.importNotion)
	api.POST("/import/url", s.importURL)
	api.POST("/pdf-parse", s.parsePDF)

	r.NoRoute(s.notFound)
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"deref": model.Deref,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"percent": func(n int) string { return fmt.Sprintf("%d%%", n) },
	"stars":   func(n int) string { return strings.Repeat("★", n) + strings.Repeat("☆", 5-n) },
	"year":    func() int { return time.Now().Year() },
}

// render executes a page template with the shared layout fields.
func (s *Server) render(c *gin.Context, code int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["path"] = c.Request.URL.Path
	if p := auth.CurrentProfile(c); p != nil {
		data["profile"] = p
		data["canManageUsers"] = auth.CanManageUsers(p.Role)
	}
	c.HTML(code, name, data)
}

func (s *Server) page(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, name, title, nil)
	}
}

func (s *Server) notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.render(c, http.StatusNotFound, "404.html", "Page not found", nil)
}

func (s *Server) health(c *gin.Context) {
	if err := s.Store.Health.Ping(c.Request.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// clientHash is the only form of the client address that reaches the logs.
func (s *Server) clientHash(c *gin.Context) string {
	return s.Hasher.HashIP(c.ClientIP())
}

// abortWithError maps store and validation errors onto JSON responses.
func (s *Server) abortWithError(c *gin.Context, err error) {
	if errors.Is(err, fetch.ErrInvalidURL) || errors.Is(err, pdftext.ErrMissingURL) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, msg := errorStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
