package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

var (
	_ store.CertificationStore = (*CertificationStore)(nil)
	_ store.SkillStore         = (*SkillStore)(nil)
	_ store.ServiceStore       = (*ServiceStore)(nil)
	_ store.TestimonialStore   = (*TestimonialStore)(nil)
	_ store.MediaStore         = (*MediaStore)(nil)
	_ store.MessageStore       = (*MessageStore)(nil)
)

type CertificationStore struct {
	repo[model.Certification]
}

func NewCertificationStore(db *gorm.DB) *CertificationStore {
	return &CertificationStore{repo[model.Certification]{
		db:     db,
		order:  "prestige desc, obtained_at desc",
		limit:  300,
		search: []string{"name", "issuing_org", "category"},
	}}
}

// Top returns the most prestigious certifications.
func (s *CertificationStore) Top(ctx context.Context, limit int) ([]model.Certification, error) {
	out := []model.Certification{}
	err := s.db.WithContext(ctx).
		Order("prestige desc, obtained_at desc nulls last").
		Limit(limitOr(limit, s.limit)).
		Find(&out).Error
	return out, translate(err)
}

type SkillStore struct {
	repo[model.Skill]
}

func NewSkillStore(db *gorm.DB) *SkillStore {
	return &SkillStore{repo[model.Skill]{
		db:     db,
		order:  "category asc, proficiency desc",
		limit:  500,
		search: []string{"name", "category"},
	}}
}

type ServiceStore struct {
	repo[model.Service]
}

func NewServiceStore(db *gorm.DB) *ServiceStore {
	return &ServiceStore{repo[model.Service]{
		db:     db,
		order:  "sort_order asc, updated_at desc",
		limit:  300,
		search: []string{"name"},
	}}
}

func (s *ServiceStore) OnHome(ctx context.Context) ([]model.Service, error) {
	out := []model.Service{}
	err := s.db.WithContext(ctx).
		Where("show_on_home = ?", true).
		Order(s.order).
		Limit(s.limit).
		Find(&out).Error
	return out, translate(err)
}

type TestimonialStore struct {
	repo[model.Testimonial]
}

func NewTestimonialStore(db *gorm.DB) *TestimonialStore {
	return &TestimonialStore{repo[model.Testimonial]{
		db:     db,
		order:  "updated_at desc",
		limit:  300,
		search: []string{"client_name", "company", "quote"},
	}}
}

func (s *TestimonialStore) OnHome(ctx context.Context) ([]model.Testimonial, error) {
	out := []model.Testimonial{}
	err := s.db.WithContext(ctx).
		Where("show_on_home = ?", true).
		Order("received_at desc nulls last, updated_at desc").
		Limit(s.limit).
		Find(&out).Error
	return out, translate(err)
}

type MediaStore struct {
	repo[model.Media]
}

func NewMediaStore(db *gorm.DB) *MediaStore {
	return &MediaStore{repo[model.Media]{
		db:     db,
		order:  "created_at desc",
		limit:  300,
		search: []string{"url", "alt"},
	}}
}

type MessageStore struct {
	repo[model.Message]
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{repo[model.Message]{
		db:     db,
		order:  "created_at desc",
		limit:  300,
		search: []string{"name", "email", "subject", "message"},
	}}
}

func (s *MessageStore) SetStatus(ctx context.Context, id string, status model.MessageStatus) error {
	if !status.Valid() {
		return model.ValidationErrorf("unknown message status %q", status)
	}
	tx := s.db.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
