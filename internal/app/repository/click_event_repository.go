package repository

import (
	"context"

	"github.com/imirazimi/shortlink/internal/app/model"
	"gorm.io/gorm"
)

// ClickEventRepository defines the data access contract for click events.
type ClickEventRepository interface {
	Create(ctx context.Context, event *model.ClickEvent) error
	ListByLink(ctx context.Context, linkID string, limit, offset int) ([]model.ClickEvent, error)
	CountByLink(ctx context.Context, linkID string) (int64, error)
}

type clickEventRepository struct {
	db *gorm.DB
}

// NewClickEventRepository returns a GORM-backed ClickEventRepository.
func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &clickEventRepository{db: db}
}

func (r *clickEventRepository) Create(ctx context.Context, event *model.ClickEvent) error {
	return translate(r.db.WithContext(ctx).Create(event).Error)
}

func (r *clickEventRepository) ListByLink(ctx context.Context, linkID string, limit, offset int) ([]model.ClickEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var result []model.ClickEvent
	if err := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("clicked_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, translate(err)
	}
	return result, nil
}

func (r *clickEventRepository) CountByLink(ctx context.Context, linkID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ClickEvent{}).
		Where("link_id = ?", linkID).
		Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}
