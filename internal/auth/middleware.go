package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/model"
)

const profileKey = "auth.profile"

// ProfileGetter loads a profile by id.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
}

// wantsJSON reports whether the caller is the dashboard's JSON client
// rather than a browser navigating pages.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RequireSession rejects requests without a valid session cookie. The
// profile is reloaded on every request so role and password changes apply
// immediately.
func (s *Sessions) RequireSession(profiles ProfileGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			unauthorized(c)
			return
		}
		claims, err := s.Parse(token)
		if err != nil {
			s.ClearCookie(c)
			unauthorized(c)
			return
		}
		p, err := profiles.Get(c.Request.Context(), claims.Subject)
		if err == nil && !s.Current(claims, p) {
			err = ErrInvalidToken
		}
		if err != nil {
			s.ClearCookie(c)
			unauthorized(c)
			return
		}
		c.Set(profileKey, p)
		c.Next()
	}
}

// RequireRole lets through only profiles holding one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentProfile(c)
		if p == nil {
			unauthorized(c)
			return
		}
		if !slices.Contains(roles, p.Role) {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentProfile returns the profile RequireSession stored, or nil.
func CurrentProfile(c *gin.Context) *model.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Profile)
	return p
}

func unauthorized(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Redirect(http.StatusFound, "/admin/login")
	c.Abort()
}

func forbidden(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Redirect(http.StatusFound, "/admin/login?reason=forbidden")
	c.Abort()
}
