package web

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/markdown"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

const homeLimit = 6

// logFallback notes a failed read; the page carries on with built-in
// content.
func logFallback(what string, err error) {
	log.Printf("Error loading %s, using built-in content: %v", what, err)
}

func (s *Server) siteContent(ctx context.Context) model.SiteContent {
	settings, err := s.Store.Settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logFallback("site settings", err)
		}
		return defaultContent()
	}
	content := settings.Settings.Content()
	if content.Hero.Name == "" && len(content.Hero.Roles) == 0 {
		content.Hero.Roles = HeroRoles
	}
	if content.About.Heading == "" {
		content.About.Heading = AboutHeading
	}
	if content.About.Body == "" {
		content.About.Body = AboutMe
	}
	return content
}

func defaultContent() model.SiteContent {
	var c model.SiteContent
	c.Hero.Roles = HeroRoles
	c.About.Heading = AboutHeading
	c.About.Body = AboutMe
	return c
}

// homeProjects prefers featured projects, fills up with the most recent
// public ones, then with built-in projects.
func (s *Server) homeProjects(ctx context.Context) []projectCard {
	var cards []projectCard
	featured, err := s.Store.Projects.Featured(ctx, homeLimit)
	if err != nil {
		logFallback("featured projects", err)
	}
	for i := range featured {
		cards = append(cards, projectCardOf(&featured[i]))
	}
	if len(cards) < homeLimit && err == nil {
		recent, err := s.Store.Projects.Public(ctx, homeLimit*2)
		if err != nil {
			logFallback("projects", err)
		}
		for i := range recent {
			cards = append(cards, projectCardOf(&recent[i]))
		}
	}
	return merge(cards, builtinProjects, func(p projectCard) string { return p.Title }, homeLimit)
}

func (s *Server) publicProjects(ctx context.Context) []projectCard {
	rows, err := s.Store.Projects.Public(ctx, 0)
	if err != nil {
		logFallback("projects", err)
	}
	cards := make([]projectCard, 0, len(rows))
	for i := range rows {
		cards = append(cards, projectCardOf(&rows[i]))
	}
	return merge(cards, builtinProjects, func(p projectCard) string { return p.Title }, 0)
}

func (s *Server) publishedPosts(ctx context.Context, limit int) []postCard {
	rows, err := s.Store.BlogPosts.Published(ctx, limit)
	if err != nil {
		logFallback("blog posts", err)
	}
	cards := make([]postCard, 0, len(rows))
	for i := range rows {
		cards = append(cards, postCardOf(&rows[i]))
	}
	return merge(cards, builtinPosts, func(p postCard) string { return p.Slug }, limit)
}

func (s *Server) topCertifications(ctx context.Context, limit int) []certCard {
	rows, err := s.Store.Certifications.Top(ctx, limit)
	if err != nil {
		logFallback("certifications", err)
	}
	cards := make([]certCard, 0, len(rows))
	for i := range rows {
		cards = append(cards, certCardOf(&rows[i]))
	}
	return merge(cards, builtinCerts, func(c certCard) string { return c.Name }, limit)
}

func (s *Server) serviceCards(ctx context.Context, homeOnly bool, limit int) []serviceCard {
	var rows []model.Service
	var err error
	if homeOnly {
		rows, err = s.Store.Services.OnHome(ctx)
	} else {
		rows, err = s.Store.Services.List(ctx, store.ListOptions{})
	}
	if err != nil {
		logFallback("services", err)
	}
	cards := make([]serviceCard, 0, len(rows))
	for i := range rows {
		cards = append(cards, serviceCard{Name: rows[i].Name, Bullets: rows[i].Bullets})
	}
	return merge(cards, builtinServices, func(v serviceCard) string { return v.Name }, limit)
}

func (s *Server) skillGroups(ctx context.Context) []skillGroup {
	rows, err := s.Store.Skills.List(ctx, store.ListOptions{})
	if err != nil {
		logFallback("skills", err)
	}
	return groupSkills(rows)
}

func (s *Server) home(c *gin.Context) {
	ctx := c.Request.Context()
	testimonials, err := s.Store.Testimonials.OnHome(ctx)
	if err != nil {
		logFallback("testimonials", err)
	}
	s.render(c, http.StatusOK, "index.html", "Home", gin.H{
		"content":        s.siteContent(ctx),
		"projects":       s.homeProjects(ctx),
		"posts":          s.publishedPosts(ctx, homeLimit),
		"certifications": s.topCertifications(ctx, homeLimit),
		"services":       s.serviceCards(ctx, true, homeLimit),
		"skills":         s.skillGroups(ctx),
		"testimonials":   testimonials,
	})
}

func (s *Server) projects(c *gin.Context) {
	s.render(c, http.StatusOK, "projects.html", "Projects", gin.H{
		"projects": s.publicProjects(c.Request.Context()),
	})
}

// lookupProject resolves a slug to a stored project or a built-in one.
// Private projects do not exist as far as visitors are concerned.
func (s *Server) lookupProject(c *gin.Context) (*model.Project, projectCard, bool) {
	slug := c.Param("slug")
	p, err := s.Store.Projects.BySlug(c.Request.Context(), slug)
	switch {
	case err == nil:
		if !p.Listed() {
			return nil, projectCard{}, false
		}
		return p, projectCardOf(p), true
	case !errors.Is(err, store.ErrNotFound):
		logFallback("project "+slug, err)
	}
	card, ok := findBuiltinProject(slug)
	return nil, card, ok
}

func (s *Server) project(c *gin.Context) {
	p, card, ok := s.lookupProject(c)
	if !ok {
		s.notFound(c)
		return
	}
	if p != nil && p.Protected() && !s.Unlocks.Unlocked(c, p.Slug) {
		s.render(c, http.StatusOK, "project-locked.html", card.Title, gin.H{"project": card})
		return
	}
	s.renderProject(c, card)
}

func (s *Server) renderProject(c *gin.Context, card projectCard) {
	body, err := markdown.Render(card.Content)
	if err != nil {
		log.Printf("Error rendering project %s: %v", card.Slug, err)
		body = template.HTML(template.HTMLEscapeString(card.Content))
	}
	s.render(c, http.StatusOK, "project.html", card.Title, gin.H{"project": card, "body": body})
}

func (s *Server) unlockProject(c *gin.Context) {
	p, card, ok := s.lookupProject(c)
	if !ok || p == nil || !p.Protected() {
		s.notFound(c)
		return
	}
	if !auth.CheckProject(p, c.PostForm("password")) {
		log.Printf("Failed unlock attempt for project %s from %s", p.Slug, s.clientHash(c))
		s.render(c, http.StatusUnauthorized, "project-locked.html", card.Title, gin.H{
			"project": card,
			"error":   "Incorrect password.",
		})
		return
	}
	token, err := s.Unlocks.Issue(p.Slug)
	if err != nil {
		log.Printf("Error issuing unlock token for %s: %v", p.Slug, err)
		s.render(c, http.StatusInternalServerError, "project-locked.html", card.Title, gin.H{
			"project": card,
			"error":   "Something went wrong. Please try again.",
		})
		return
	}
	s.Unlocks.SetCookie(c, p.Slug, token)
	c.Redirect(http.StatusSeeOther, "/projects/"+p.Slug)
}

func (s *Server) blog(c *gin.Context) {
	s.render(c, http.StatusOK, "blog.html", "Incident Reports", gin.H{
		"posts": s.publishedPosts(c.Request.Context(), 0),
	})
}

func (s *Server) blogPost(c *gin.Context) {
	slug := c.Param("slug")
	var card postCard
	post, err := s.Store.BlogPosts.PublishedBySlug(c.Request.Context(), slug)
	switch {
	case err == nil:
		card = postCardOf(post)
	case errors.Is(err, store.ErrNotFound):
		builtin, ok := findBuiltinPost(slug)
		if !ok {
			s.notFound(c)
			return
		}
		card = builtin
	default:
		logFallback("blog post "+slug, err)
		builtin, ok := findBuiltinPost(slug)
		if !ok {
			s.notFound(c)
			return
		}
		card = builtin
	}

	source := card.Content
	if source == "" {
		source = card.Excerpt
	}
	body, err := markdown.Render(source)
	if err != nil {
		log.Printf("Error rendering post %s: %v", slug, err)
		body = template.HTML(template.HTMLEscapeString(source))
	}
	s.render(c, http.StatusOK, "post.html", card.Title, gin.H{"post": card, "body": body})
}

func (s *Server) certifications(c *gin.Context) {
	s.render(c, http.StatusOK, "certifications.html", "Certifications", gin.H{
		"certifications": s.topCertifications(c.Request.Context(), 0),
	})
}

func (s *Server) skills(c *gin.Context) {
	s.render(c, http.StatusOK, "skills.html", "Skills", gin.H{
		"skills": s.skillGroups(c.Request.Context()),
	})
}

func (s *Server) services(c *gin.Context) {
	s.render(c, http.StatusOK, "services.html", "Areas of Interest", gin.H{
		"services": s.serviceCards(c.Request.Context(), false, 0),
	})
}

func (s *Server) about(c *gin.Context) {
	s.render(c, http.StatusOK, "about.html", "About", gin.H{
		"content": s.siteContent(c.Request.Context()),
	})
}
