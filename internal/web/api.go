package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/fetch"
	"github.com/Zachkp/portfolio/internal/importer"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/pdftext"
	"github.com/Zachkp/portfolio/internal/store"
)

// maxBodyBytes caps JSON request bodies on the admin API.
const maxBodyBytes = 1 << 20

// resource is the dashboard's list / create / update / delete / refresh
// cycle for one entity.
type resource[T any, PT interface {
	*T
	model.Normalizer
}] struct {
	name    string
	srv     *Server
	repo    store.Repository[T]
	newFn   func() PT
	prepare func(PT) error
}

func registerResource[T any, PT interface {
	*T
	model.Normalizer
}](g *gin.RouterGroup, s *Server, name string, repo store.Repository[T], newFn func() PT, prepare func(PT) error) {
	r := &resource[T, PT]{name: name, srv: s, repo: repo, newFn: newFn, prepare: prepare}
	g.GET("/"+name, r.list)
	g.POST("/"+name, r.create)
	g.GET("/"+name+"/:id", r.get)
	g.PUT("/"+name+"/:id", r.update)
	g.DELETE("/"+name+"/:id", r.delete)
	s.editors[name] = r
}

func sealProject(p *model.Project) error {
	return auth.SealProject(p)
}

func listOptions(c *gin.Context) store.ListOptions {
	opts := store.ListOptions{Query: c.Query("q")}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		opts.Limit = n
	}
	return opts
}

// decodeJSON reads a JSON body onto dst. Unknown fields are rejected so a
// typo in the editor does not silently drop a value.
func decodeJSON(c *gin.Context, dst any) error {
	return decodeStrict(io.LimitReader(c.Request.Body, maxBodyBytes), dst)
}

func decodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return model.ValidationErrorf("Invalid request body: %v", err)
	}
	return nil
}

// decodeObject decodes an editor form object onto dst.
func decodeObject(obj map[string]any, dst any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return decodeStrict(bytes.NewReader(b), dst)
}

func (r *resource[T, PT]) list(c *gin.Context) {
	items, err := r.repo.List(c.Request.Context(), listOptions(c))
	if err != nil {
		r.srv.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (r *resource[T, PT]) get(c *gin.Context) {
	item, err := r.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.srv.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// save runs the editor's save rules on v.
func (r *resource[T, PT]) save(v PT) error {
	if err := v.Normalize(); err != nil {
		return err
	}
	if r.prepare != nil {
		return r.prepare(v)
	}
	return nil
}

// refreshed answers a mutation with the saved item and the reloaded list.
func (r *resource[T, PT]) refreshed(c *gin.Context, code int, item any, action string) {
	r.srv.Metrics.Mutation(r.name, action)
	items, err := r.repo.List(c.Request.Context(), listOptions(c))
	if err != nil {
		r.srv.abortWithError(c, err)
		return
	}
	c.JSON(code, gin.H{"item": item, "items": items})
}

func (r *resource[T, PT]) createFrom(ctx context.Context, decode func(any) error) (PT, error) {
	v := r.newFn()
	if err := decode(v); err != nil {
		return nil, err
	}
	if err := r.save(v); err != nil {
		return nil, err
	}
	if err := r.repo.Create(ctx, (*T)(v)); err != nil {
		return nil, err
	}
	return v, nil
}

// updateFrom decodes over the stored row, so fields the caller does not
// send (and write-only ones like password hashes) keep their values.
func (r *resource[T, PT]) updateFrom(ctx context.Context, id string, decode func(any) error) (*T, error) {
	existing, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := PT(existing)
	if err := decode(v); err != nil {
		return nil, err
	}
	if err := r.save(v); err != nil {
		return nil, err
	}
	if err := r.repo.Update(ctx, id, existing); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, id)
}

func (r *resource[T, PT]) create(c *gin.Context) {
	v, err := r.createFrom(c.Request.Context(), func(dst any) error { return decodeJSON(c, dst) })
	if err != nil {
		r.srv.abortWithError(c, err)
		return
	}
	r.refreshed(c, http.StatusCreated, v, "create")
}

func (r *resource[T, PT]) update(c *gin.Context) {
	saved, err := r.updateFrom(c.Request.Context(), c.Param("id"), func(dst any) error { return decodeJSON(c, dst) })
	if err != nil {
		r.srv.abortWithError(c, err)
		return
	}
	r.refreshed(c, http.StatusOK, saved, "update")
}

func (r *resource[T, PT]) item(ctx context.Context, id string) (map[string]any, error) {
	if id == "" {
		return toObject(r.newFn())
	}
	v, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toObject(v)
}

func (r *resource[T, PT]) saveObject(ctx context.Context, id string, obj map[string]any) error {
	decode := func(dst any) error { return decodeObject(obj, dst) }
	action := "create"
	var err error
	if id == "" {
		_, err = r.createFrom(ctx, decode)
	} else {
		action = "update"
		_, err = r.updateFrom(ctx, id, decode)
	}
	if err != nil {
		return err
	}
	r.srv.Metrics.Mutation(r.name, action)
	return nil
}

func (r *resource[T, PT]) delete(c *gin.Context) {
	id := c.Param("id")
	if err := r.repo.Delete(c.Request.Context(), id); err != nil {
		r.srv.abortWithError(c, err)
		return
	}
	log.Printf("%s %s deleted by admin from %s", r.name, id, r.srv.clientHash(c))
	r.refreshed(c, http.StatusOK, nil, "delete")
}

func (s *Server) setMessageStatus(c *gin.Context) {
	var body struct {
		Status model.MessageStatus `json:"status"`
	}
	if err := decodeJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	if !body.Status.Valid() {
		s.abortWithError(c, model.ValidationErrorf("unknown message status %q", body.Status))
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := s.Store.Messages.SetStatus(ctx, id, body.Status); err != nil {
		s.abortWithError(c, err)
		return
	}
	s.Metrics.Mutation("messages", "status")
	msg, err := s.Store.Messages.Get(ctx, id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": msg})
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.Store.Settings.Get(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"settings": model.JSONObject{}})
		return
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// putSettings takes the whole settings object as the request body.
func (s *Server) putSettings(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		s.abortWithError(c, model.ValidationErrorf("Invalid request body."))
		return
	}
	obj, err := model.ParseJSONObject(raw)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	settings, err := s.Store.Settings.Put(c.Request.Context(), obj)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	s.Metrics.Mutation("settings", "update")
	c.JSON(http.StatusOK, settings)
}

func (s *Server) settingsTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": model.SettingsTemplate()})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.Store.Profiles.List(c.Request.Context(), listOptions(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users})
}

type newUser struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	DisplayName *string    `json:"display_name"`
	Role        model.Role `json:"role"`
}

func (s *Server) createUser(c *gin.Context) {
	var body newUser
	if err := decodeJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	p := &model.Profile{Email: body.Email, DisplayName: body.DisplayName, Role: body.Role}
	ctx := c.Request.Context()
	if err := auth.CreateProfile(ctx, s.Store.Profiles, p, body.Password); err != nil {
		s.abortWithError(c, err)
		return
	}
	s.Metrics.Mutation("users", "create")
	log.Printf("User %s (%s) created by %s", p.Email, p.Role, s.clientHash(c))
	s.usersChanged(c, http.StatusCreated, p)
}

func (s *Server) setUserRole(c *gin.Context) {
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	role, err := model.ParseRole(body.Role)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	id := c.Param("id")
	if me := auth.CurrentProfile(c); me != nil && me.ID == id && role != model.RoleAdmin {
		s.abortWithError(c, model.ValidationErrorf("You cannot remove your own admin role."))
		return
	}
	ctx := c.Request.Context()
	if err := s.Store.Profiles.SetRole(ctx, id, role); err != nil {
		s.abortWithError(c, err)
		return
	}
	s.Metrics.Mutation("users", "role")
	log.Printf("User %s set to %s by %s", id, role, s.clientHash(c))
	p, err := s.Store.Profiles.Get(ctx, id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	s.usersChanged(c, http.StatusOK, p)
}

func (s *Server) usersChanged(c *gin.Context, code int, p *model.Profile) {
	users, err := s.Store.Profiles.List(c.Request.Context(), store.ListOptions{})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(code, gin.H{"item": p, "items": users})
}

func (s *Server) importNotion(c *gin.Context) {
	if s.Importer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": importer.ErrMissingKey.Error()})
		return
	}
	res, err := s.Importer.Notion(c.Request.Context())
	if errors.Is(err, importer.ErrMissingKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("Notion sync failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.Metrics.Imported("notion", res.Blog+res.Projects)
	log.Printf("Notion sync by %s: %d posts, %d projects", s.clientHash(c), res.Blog, res.Projects)
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}

type urlRequest struct {
	URL string `json:"url"`
}

// upstreamFailed reports errors caused by the remote side of an import.
func upstreamFailed(err error) bool {
	var se *fetch.StatusError
	return errors.As(err, &se) || errors.Is(err, fetch.ErrTooLarge)
}

func (s *Server) importURL(c *gin.Context) {
	if s.Importer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "importer is not configured"})
		return
	}
	var body urlRequest
	if err := decodeJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	post, err := s.Importer.URL(c.Request.Context(), body.URL)
	if err != nil {
		if upstreamFailed(err) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		s.abortWithError(c, err)
		return
	}
	s.Metrics.Imported("url", 1)
	s.Metrics.Mutation("blog", "create")
	c.JSON(http.StatusCreated, gin.H{"item": post})
}

func (s *Server) parsePDF(c *gin.Context) {
	if s.PDF == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PDF extraction is not configured"})
		return
	}
	var body urlRequest
	if err := decodeJSON(c, &body); err != nil {
		s.abortWithError(c, err)
		return
	}
	res, err := s.PDF.FromURL(c.Request.Context(), body.URL)
	if err != nil {
		if errors.Is(err, pdftext.ErrMissingURL) || errors.Is(err, fetch.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
