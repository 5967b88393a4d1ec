// Package auth handles dashboard accounts: password hashing, role
// capabilities, signed session cookies and the gin middleware that gates
// the admin routes.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

// MinPasswordLen applies to dashboard accounts and project passwords.
const MinPasswordLen = 8

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", model.ValidationErrorf("Password must be at least %d characters.", MinPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsHash reports whether s looks like a bcrypt hash.
func IsHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// RandomToken returns 32 random bytes hex encoded.
func RandomToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate random token:", err)
	}
	return hex.EncodeToString(bytes)
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// Authenticate checks an email and password against the profiles table.
func Authenticate(ctx context.Context, profiles store.ProfileStore, email, password string) (*model.Profile, error) {
	p, err := profiles.ByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(p.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// CreateProfile validates and stores a new account with a hashed password.
func CreateProfile(ctx context.Context, profiles store.ProfileStore, p *model.Profile, password string) error {
	if err := p.Normalize(); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return profiles.Create(ctx, p)
}

// Bootstrap creates an admin account when the profiles table is empty and
// credentials were configured. It reports whether an account was created.
func Bootstrap(ctx context.Context, profiles store.ProfileStore, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	n, err := profiles.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count profiles: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	admin := &model.Profile{Email: email, Role: model.RoleAdmin}
	if err := CreateProfile(ctx, profiles, admin, password); err != nil {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}
	log.Printf("Created admin account %s", admin.Email)
	return true, nil
}

// SealProject hashes a newly supplied project access password into
// AccessPasswordHash. A value that is already a bcrypt hash is stored as
// is, so seed files need not carry plain passwords. Call it after Normalize.
func SealProject(p *model.Project) error {
	if !p.Protected() || p.AccessPassword == "" {
		p.AccessPassword = ""
		return nil
	}
	hash := p.AccessPassword
	if !IsHash(hash) {
		var err error
		if hash, err = HashPassword(p.AccessPassword); err != nil {
			return err
		}
	}
	p.AccessPasswordHash = &hash
	p.AccessPassword = ""
	return nil
}

// CheckProject reports whether password opens a password-protected project.
func CheckProject(p *model.Project, password string) bool {
	if !p.Protected() || p.AccessPasswordHash == nil {
		return false
	}
	return CheckPassword(*p.AccessPasswordHash, password)
}
