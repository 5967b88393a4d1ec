package gormstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return gormDB, mock
}

var projectColumns = []string{"id", "slug", "title", "tech_stack", "featured", "status", "visibility", "created_at", "updated_at"}

func TestProjectListFilter(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE .*title ILIKE \$1 OR slug ILIKE \$2 OR category ILIKE \$3.* ORDER BY updated_at desc LIMIT 200`).
		WithArgs("%net%", "%net%", "%net%").
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow("p1", "secure-net", "Secure Net", "{VLAN,OSPF}", true, "active", "public", now, now))

	got, err := NewProjectStore(db).List(context.Background(), store.ListOptions{Query: " net "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "secure-net", got[0].Slug)
	assert.Equal(t, []string{"VLAN", "OSPF"}, []string(got[0].TechStack))
	assert.Equal(t, model.VisibilityPublic, got[0].Visibility)
}

func TestListEscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "skills" WHERE .*name ILIKE \$1 OR category ILIKE \$2.* ORDER BY category asc, proficiency desc LIMIT 5`).
		WithArgs(`%100\%%`, `%100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := NewSkillStore(db).List(context.Background(), store.ListOptions{Query: "100%", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "certifications" WHERE id = $1 LIMIT 1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewCertificationStore(db).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMalformedID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE id = $1 LIMIT 1`)).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})

	_, err := NewProjectStore(db).Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAssignsID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "services"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := model.NewService()
	svc.Name = "Labs"
	require.NoError(t, NewServiceStore(db).Create(context.Background(), svc))
	assert.NotEmpty(t, svc.ID)
	assert.False(t, svc.CreatedAt.IsZero())
}

func TestCreateDuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "blog_posts"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "blog_posts_slug_key"})

	post := model.NewBlogPost()
	post.Title, post.Slug = "Dup", "dup"
	err := NewBlogStore(db).Create(context.Background(), post)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrConflict))
	assert.Contains(t, err.Error(), "blog_posts_slug_key")
}

func TestUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewTestimonialStore(db)

	mock.ExpectExec(`UPDATE "testimonials" SET .*"client_name"=.* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "testimonials" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tm := model.NewTestimonial()
	tm.ClientName, tm.Quote = "Ada", "Sharp work"
	require.NoError(t, s.Update(context.Background(), "t1", tm))

	err := s.Update(context.Background(), "gone", tm)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMediaStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "media" WHERE id = $1`)).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "media" WHERE id = $1`)).
		WithArgs("m2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), "m1"))
	assert.ErrorIs(t, s.Delete(context.Background(), "m2"), store.ErrNotFound)
}

func TestCount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "skills"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := NewSkillStore(db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestMessageSetStatus(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewMessageStore(db)

	err := s.SetStatus(context.Background(), "m1", "deleted")
	assert.ErrorIs(t, err, model.ErrValidation)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "messages" SET "status"=$1 WHERE id = $2`)).
		WithArgs("read", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.SetStatus(context.Background(), "m1", model.MessageRead))
}

func TestPublishedPosts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blog_posts" WHERE status = $1 ORDER BY published_at desc nulls last LIMIT 6`)).
		WithArgs("published").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "title", "status"}).AddRow("b1", "rep-001", "JWT", "published"))

	posts, err := NewBlogStore(db).Published(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Published())
}

func TestProjectUpsertInserts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE slug = $1 LIMIT 1`)).
		WithArgs("new-thing").
		WillReturnRows(sqlmock.NewRows(projectColumns))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "projects"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := model.NewProject()
	p.Title, p.Slug = "New thing", "new-thing"
	created, err := NewProjectStore(db).UpsertBySlug(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestProjectUpsertUpdatesExisting(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "projects" WHERE slug = $1 LIMIT 1`)).
		WithArgs("old-thing").
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow("p9", "old-thing", "Old", "{}", false, "active", "public", created, created))
	mock.ExpectExec(`UPDATE "projects" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := model.NewProject()
	p.Title, p.Slug = "Old, renamed", "old-thing"
	isNew, err := NewProjectStore(db).UpsertBySlug(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, created, p.CreatedAt)
}

func TestSettingsGetEmpty(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "site_settings" WHERE id = $1 LIMIT 1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "settings"}))

	got, err := NewSettingsStore(db).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SettingsID, got.ID)
	assert.Empty(t, got.Settings)
}

func TestSettingsGetDecodesJSON(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "site_settings" WHERE id = $1 LIMIT 1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "settings"}).AddRow(1, []byte(`{"hero":{"name":"Ada"}}`)))

	got, err := NewSettingsStore(db).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Settings.Content().Hero.Name)
}

func TestProfileByEmailNormalizes(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE email = $1 LIMIT 1`)).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role"}).
			AddRow("u1", "admin@example.com", "$2a$hash", "admin"))

	p, err := NewProfileStore(db).ByEmail(context.Background(), "  Admin@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, p.Role)
	assert.Equal(t, "$2a$hash", p.PasswordHash)
}

func TestHealthPing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`SELECT 1`)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, NewHealthStore(db).Ping(context.Background()))
}

func TestLimitOr(t *testing.T) {
	assert.Equal(t, 200, limitOr(0, 200))
	assert.Equal(t, 10, limitOr(10, 200))
	assert.Equal(t, maxLimit, limitOr(5000, 200))
}
