package repository

import (
	"context"
	"errors"
	"time"

	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrDuplicateCode signals that the short code is already taken. The
	// unique index on urls.short_code is the authority; inserts are never
	// preceded by a read-then-check.
	ErrDuplicateCode = errors.New("short code already exists")
	// ErrStorageTimeout signals a transient storage failure the caller may retry.
	ErrStorageTimeout = errors.New("storage timeout")
)

const pgUniqueViolation = "23505"

// translate maps driver-level failures onto the repository's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateCode
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStorageTimeout
	}
	return err
}

// LinkRepository defines the data access contract for short links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByCode(ctx context.Context, code string) (*model.Link, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error)
	UpdateTitle(ctx context.Context, id string, title *string) (*model.Link, error)
	IncrementClicks(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *linkRepository) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, translate(err)
	}
	return &link, nil
}

func (r *linkRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var result []model.Link
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, translate(err)
	}

	return result, nil
}

func (r *linkRepository) UpdateTitle(ctx context.Context, id string, title *string) (*model.Link, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrLinkNotFound
	}

	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

// IncrementClicks bumps click_count by one in a single UPDATE so concurrent
// redirects never lose counts. A zero row count means the link vanished
// between lookup and increment.
func (r *linkRepository) IncrementClicks(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"click_count": gorm.Expr("click_count + ?", 1),
			"updated_at":  time.Now().UTC(),
		})

	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Link{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (r *linkRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", before).
		Delete(&model.Link{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}
