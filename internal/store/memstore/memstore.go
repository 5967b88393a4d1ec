// Package memstore implements the store interfaces in memory. It backs
// `serve --memory` for trying the site without Postgres and the handler
// tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

// New returns an empty in-memory store.
func New() *store.Store {
	return &store.Store{
		Projects:       NewProjectStore(),
		BlogPosts:      NewBlogStore(),
		Certifications: NewCertificationStore(),
		Skills:         NewSkillStore(),
		Services:       NewServiceStore(),
		Testimonials:   NewTestimonialStore(),
		Media:          NewMediaStore(),
		Messages:       NewMessageStore(),
		Settings:       NewSettingsStore(),
		Profiles:       NewProfileStore(),
		Health:         Health{},
	}
}

// Now is the clock used for timestamps.
var Now = func() time.Time { return time.Now().UTC() }

// schema tells repo how to reach the columns it manages.
type schema[T any] struct {
	id      func(*T) *string
	created func(*T) *time.Time
	updated func(*T) *time.Time // nil when the table has no updated_at
	unique  func(*T) string     // "" when the table has no unique key
	search  func(*T) []string
	less    func(a, b *T) bool
	limit   int
}

type repo[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
	s    schema[T]
}

func newRepo[T any](s schema[T]) *repo[T] {
	return &repo[T]{rows: map[string]T{}, s: s}
}

func (r *repo[T]) List(_ context.Context, opts store.ListOptions) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.query(func(v *T) bool { return matches(r.s.search(v), opts.Query) }, r.s.less, opts.Limit), nil
}

// query returns copies of the rows keep accepts, sorted by less.
func (r *repo[T]) query(keep func(*T) bool, less func(a, b *T) bool, limit int) []T {
	out := []T{}
	for _, v := range r.rows {
		v := v
		if keep(&v) {
			out = append(out, clone(v))
		}
	}
	// map order is random; sort by id first so ties are stable
	sort.Slice(out, func(i, j int) bool { return *r.s.id(&out[i]) < *r.s.id(&out[j]) })
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	if limit <= 0 {
		limit = r.s.limit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *repo[T]) Get(_ context.Context, id string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	v = clone(v)
	return &v, nil
}

func (r *repo[T]) Create(_ context.Context, v *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(v)
}

func (r *repo[T]) create(v *T) error {
	id := r.s.id(v)
	if *id == "" {
		*id = uuid.NewString()
	}
	if _, ok := r.rows[*id]; ok {
		return store.ErrConflict
	}
	if r.taken(v, "") {
		return store.ErrConflict
	}
	now := Now()
	*r.s.created(v) = now
	if r.s.updated != nil {
		*r.s.updated(v) = now
	}
	r.rows[*id] = clone(*v)
	return nil
}

func (r *repo[T]) Update(_ context.Context, id string, v *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(id, v)
}

func (r *repo[T]) update(id string, v *T) error {
	existing, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	if r.taken(v, id) {
		return store.ErrConflict
	}
	*r.s.id(v) = id
	*r.s.created(v) = *r.s.created(&existing)
	if r.s.updated != nil {
		*r.s.updated(v) = Now()
	}
	r.rows[id] = clone(*v)
	return nil
}

// taken reports whether another row already holds v's unique key.
func (r *repo[T]) taken(v *T, self string) bool {
	if r.s.unique == nil {
		return false
	}
	key := r.s.unique(v)
	for id, row := range r.rows {
		row := row
		if id != self && r.s.unique(&row) == key {
			return true
		}
	}
	return false
}

func (r *repo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *repo[T]) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rows)), nil
}

// clone copies v so that no slice, map or pointer is shared between the
// stored row and what callers hold.
func clone[T any](v T) T {
	return deepcopy.Copy(v).(T)
}

func matches(fields []string, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func all[T any](*T) bool { return true }

func newestUpdated[T any](updated func(*T) *time.Time) func(a, b *T) bool {
	return func(a, b *T) bool { return updated(a).After(*updated(b)) }
}

func baseSchema[T any](base func(*T) *model.Base) schema[T] {
	return schema[T]{
		id:      func(v *T) *string { return &base(v).ID },
		created: func(v *T) *time.Time { return &base(v).CreatedAt },
		updated: func(v *T) *time.Time { return &base(v).UpdatedAt },
		limit:   300,
	}
}

// Health always reports the store reachable.
type Health struct{}

func (Health) Ping(context.Context) error { return nil }
