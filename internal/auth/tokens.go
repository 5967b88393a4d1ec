package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Zachkp/portfolio/internal/model"
)

const (
	issuer          = "portfolio"
	sessionAudience = "admin"
	unlockAudience  = "project"

	// SessionCookie holds the signed dashboard session.
	SessionCookie = "portfolio_session"
	unlockPrefix  = "portfolio_unlock_"
)

// ErrInvalidToken covers malformed, expired and tampered tokens.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims identify a signed-in profile.
type SessionClaims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
	Name string     `json:"name"`
	// Password fingerprints the password hash the session was issued
	// under, so setting a new password ends older sessions.
	Password string `json:"pwd"`
}

// signer issues and verifies HS256 tokens for one audience.
type signer struct {
	secret   []byte
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func (s signer) registered(subject string) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{s.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
}

func (s signer) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s signer) parse(token string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// Sessions issues the dashboard session cookie.
type Sessions struct {
	signer
	secure bool
}

func NewSessions(secret []byte, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{
		signer: signer{secret: secret, audience: sessionAudience, ttl: ttl, now: time.Now},
		secure: secure,
	}
}

// Issue signs a session for p.
func (s *Sessions) Issue(p *model.Profile) (string, error) {
	return s.sign(&SessionClaims{
		RegisteredClaims: s.registered(p.ID),
		Role:             p.Role,
		Name:             p.Name(),
		Password:         s.fingerprint(p),
	})
}

func (s *Sessions) fingerprint(p *model.Profile) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(p.PasswordHash))
	return hex.EncodeToString(mac.Sum(nil)[:12])
}

// Current reports whether claims were issued under p's present password.
func (s *Sessions) Current(claims *SessionClaims, p *model.Profile) bool {
	return hmac.Equal([]byte(claims.Password), []byte(s.fingerprint(p)))
}

// Parse verifies token and returns its claims.
func (s *Sessions) Parse(token string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := s.parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &claims, nil
}

func (s *Sessions) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
}

func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
}

// UnlockTokens remember that a visitor entered a project's password.
type UnlockTokens struct {
	signer
	secure bool
}

func NewUnlockTokens(secret []byte, ttl time.Duration, secure bool) *UnlockTokens {
	return &UnlockTokens{
		signer: signer{secret: secret, audience: unlockAudience, ttl: ttl, now: time.Now},
		secure: secure,
	}
}

func unlockSubject(slug string) string { return "project:" + slug }

// UnlockCookie is the per-project cookie name.
func UnlockCookie(slug string) string { return unlockPrefix + slug }

func (u *UnlockTokens) Issue(slug string) (string, error) {
	claims := u.registered(unlockSubject(slug))
	return u.sign(&claims)
}

// Valid reports whether token unlocks the project with the given slug.
func (u *UnlockTokens) Valid(token, slug string) bool {
	var claims jwt.RegisteredClaims
	if err := u.parse(token, &claims); err != nil {
		return false
	}
	return claims.Subject == unlockSubject(slug)
}

// Unlocked reads the project's cookie from the request.
func (u *UnlockTokens) Unlocked(c *gin.Context, slug string) bool {
	token, err := c.Cookie(UnlockCookie(slug))
	return err == nil && u.Valid(token, slug)
}

func (u *UnlockTokens) SetCookie(c *gin.Context, slug, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(UnlockCookie(slug), token, int(u.ttl.Seconds()), "/projects/"+slug, "", u.secure, true)
}
