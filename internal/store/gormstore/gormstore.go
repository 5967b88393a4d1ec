// Package gormstore implements the store interfaces on Postgres with GORM.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zachkp/portfolio/internal/store"
)

// Open connects to the content database. debug logs every statement.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			SkipDefaultTransaction: true,
			Logger: logger.New(log.Default(), logger.Config{
				SlowThreshold: 500 * time.Millisecond,
				LogLevel:      level,
			}),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to DB: %w", err)
	}
	return db, nil
}

// New wires every store onto db.
func New(db *gorm.DB) *store.Store {
	return &store.Store{
		Projects:       NewProjectStore(db),
		BlogPosts:      NewBlogStore(db),
		Certifications: NewCertificationStore(db),
		Skills:         NewSkillStore(db),
		Services:       NewServiceStore(db),
		Testimonials:   NewTestimonialStore(db),
		Media:          NewMediaStore(db),
		Messages:       NewMessageStore(db),
		Settings:       NewSettingsStore(db),
		Profiles:       NewProfileStore(db),
		Health:         NewHealthStore(db),
	}
}

const maxLimit = 1000

// repo is the CRUD shared by every content table. order and limit mirror
// the dashboard's list view for the entity; search names the columns the
// list filter matches.
type repo[T any] struct {
	db     *gorm.DB
	order  string
	limit  int
	search []string
}

func (r *repo[T]) List(ctx context.Context, opts store.ListOptions) ([]T, error) {
	q := r.db.WithContext(ctx).Order(r.order).Limit(limitOr(opts.Limit, r.limit))
	q = filter(q, opts.Query, r.search)

	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *repo[T]) Get(ctx context.Context, id string) (*T, error) {
	v := new(T)
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(v).Error; err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (r *repo[T]) Create(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *repo[T]) Update(ctx context.Context, id string, v *T) error {
	return update(r.db.WithContext(ctx), id, v)
}

func (r *repo[T]) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repo[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// update overwrites every column of the row with the given id except id
// and created_at.
func update[T any](tx *gorm.DB, id string, v *T) error {
	res := tx.Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(v)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filter adds a case-insensitive substring match over columns.
func filter(q *gorm.DB, term string, columns []string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		conds[i] = c + " ILIKE ?"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// Postgres SQLSTATE codes translated into store errors.
const (
	uniqueViolation   = "23505"
	invalidTextFormat = "22P02"
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var code, constraint string
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code, constraint = pgErr.Code, pgErr.ConstraintName
	case errors.As(err, &pqErr):
		code, constraint = string(pqErr.Code), pqErr.Constraint
	default:
		return err
	}

	switch code {
	case uniqueViolation:
		return fmt.Errorf("%w (%s)", store.ErrConflict, constraint)
	case invalidTextFormat:
		// a malformed uuid can never match a row
		return store.ErrNotFound
	}
	return err
}
