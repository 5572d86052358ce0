package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/imirazimi/shortlink/internal/app/repository"
	"github.com/imirazimi/shortlink/internal/codegen"
	"github.com/imirazimi/shortlink/internal/infra/prometheus"
	"go.uber.org/zap"
)

const (
	maxURLLength    = 2048
	maxTitleLength  = 200
	minCustomCode   = 3
	maxCustomCode   = 20
	maxCodeAttempts = 5
)

var customCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ClickMeta carries the request metadata captured at click time.
type ClickMeta struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// ClickRecorder records one click on a link. Recording is best-effort
// auxiliary telemetry; the service observes failures but never escalates
// them to the redirecting visitor.
type ClickRecorder interface {
	Record(ctx context.Context, link *model.Link, meta ClickMeta) error
}

// CreateLinkInput captures data required to create a link.
type CreateLinkInput struct {
	OriginalURL string
	CustomCode  string
	Title       *string
	OwnerID     *string
	ExpiresAt   *time.Time
}

// LinkService defines behaviour-level operations on links.
type LinkService interface {
	CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error)
	Resolve(ctx context.Context, code string, meta ClickMeta) (*model.Link, error)
	GetInfo(ctx context.Context, code string) (*model.Link, error)
	ListOwnerLinks(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error)
	ListClicks(ctx context.Context, code, actor string, limit, offset int) ([]model.ClickEvent, int64, error)
	UpdateTitle(ctx context.Context, code, actor string, title *string) (*model.Link, error)
	DeleteLink(ctx context.Context, code, actor string) error
}

type linkService struct {
	links   repository.LinkRepository
	clicks  repository.ClickEventRepository
	gen     codegen.Generator
	rec     ClickRecorder
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewLinkService returns a service implementation backed by the given
// repositories. rec may be nil, in which case clicks are counted but no
// events are recorded.
func NewLinkService(links repository.LinkRepository, clicks repository.ClickEventRepository, gen codegen.Generator, rec ClickRecorder, logger *zap.Logger) LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &linkService{
		links:   links,
		clicks:  clicks,
		gen:     gen,
		rec:     rec,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (s *linkService) CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	if input.CustomCode != "" {
		// The caller chose this code deliberately; a conflict goes straight
		// back instead of being retried with a different code.
		link := s.newLink(input, input.CustomCode)
		if err := s.links.Create(ctx, link); err != nil {
			if errors.Is(err, repository.ErrDuplicateCode) {
				return nil, fmt.Errorf("code %q: %w", input.CustomCode, ErrConflict)
			}
			return nil, fmt.Errorf("create link: %w", err)
		}
		prometheus.LinksCreated.Inc()
		return link, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		link := s.newLink(input, code)
		err = s.links.Create(ctx, link)
		if err == nil {
			prometheus.LinksCreated.Inc()
			return link, nil
		}
		if errors.Is(err, repository.ErrDuplicateCode) {
			s.logger.Debug("short code collision, retrying",
				zap.String("code", code),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.logger.Error("exhausted short code attempts", zap.Int("attempts", maxCodeAttempts))
	return nil, ErrExhausted
}

// Resolve looks up an active link, counts the click, and records the event.
// The counter increment is part of the redirect contract and failing it
// fails the redirect; the event write is best-effort.
func (s *linkService) Resolve(ctx context.Context, code string, meta ClickMeta) (*model.Link, error) {
	link, err := s.activeByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.links.IncrementClicks(ctx, link.ID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			// Lost a race with a delete; to the visitor the link is gone.
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("increment clicks: %w", err)
	}
	link.ClickCount++

	if s.rec != nil {
		if err := s.rec.Record(ctx, link, meta); err != nil {
			// Deliberately discarded: telemetry must not break redirects.
			prometheus.ClicksDropped.Inc()
			s.logger.Warn("failed to record click event",
				zap.String("code", link.ShortCode),
				zap.Error(err),
			)
		}
	}

	prometheus.RedirectsServed.Inc()
	return link, nil
}

func (s *linkService) GetInfo(ctx context.Context, code string) (*model.Link, error) {
	return s.activeByCode(ctx, code)
}

func (s *linkService) ListOwnerLinks(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error) {
	links, err := s.links.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// ListClicks returns one page of click events plus the link's total event
// count, so callers can paginate without a second round trip.
func (s *linkService) ListClicks(ctx context.Context, code, actor string, limit, offset int) ([]model.ClickEvent, int64, error) {
	link, err := s.ownedByCode(ctx, code, actor)
	if err != nil {
		return nil, 0, err
	}

	events, err := s.clicks.ListByLink(ctx, link.ID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list clicks: %w", err)
	}

	total, err := s.clicks.CountByLink(ctx, link.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("count clicks: %w", err)
	}
	return events, total, nil
}

func (s *linkService) UpdateTitle(ctx context.Context, code, actor string, title *string) (*model.Link, error) {
	if title != nil && len(*title) > maxTitleLength {
		return nil, &ValidationError{Fields: []string{"title"}}
	}

	link, err := s.ownedByCode(ctx, code, actor)
	if err != nil {
		return nil, err
	}

	updated, err := s.links.UpdateTitle(ctx, link.ID, title)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update title: %w", err)
	}
	return updated, nil
}

// DeleteLink removes a link and, through the cascade, its click events.
// Deleting an absent code reports ErrNotFound so callers can tell
// "deleted" from "nothing happened".
func (s *linkService) DeleteLink(ctx context.Context, code, actor string) error {
	link, err := s.ownedByCode(ctx, code, actor)
	if err != nil {
		return err
	}

	if err := s.links.Delete(ctx, link.ID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// activeByCode fetches a link and treats expired rows as absent.
func (s *linkService) activeByCode(ctx context.Context, code string) (*model.Link, error) {
	link, err := s.links.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}

	if !link.IsActive(s.nowFunc()) {
		prometheus.ExpiredLookups.Inc()
		s.logger.Info("expired link requested", zap.String("code", code))
		return nil, ErrNotFound
	}
	return link, nil
}

// ownedByCode fetches a link, expired or not, and enforces ownership.
// Management operations still work on expired rows.
func (s *linkService) ownedByCode(ctx context.Context, code, actor string) (*model.Link, error) {
	link, err := s.links.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}

	if link.OwnerID != nil && (actor == "" || !link.OwnedBy(actor)) {
		return nil, ErrNotOwner
	}
	return link, nil
}

func (s *linkService) newLink(input CreateLinkInput, code string) *model.Link {
	return &model.Link{
		ID:          uuid.New().String(),
		ShortCode:   code,
		OriginalURL: input.OriginalURL,
		Title:       input.Title,
		OwnerID:     input.OwnerID,
		ExpiresAt:   input.ExpiresAt,
	}
}

func (s *linkService) validateCreate(input CreateLinkInput) error {
	var fields []string

	if !validOriginalURL(input.OriginalURL) {
		fields = append(fields, "original_url")
	}
	if input.CustomCode != "" && !validCustomCode(input.CustomCode) {
		fields = append(fields, "custom_code")
	}
	if input.Title != nil && len(*input.Title) > maxTitleLength {
		fields = append(fields, "title")
	}
	if input.ExpiresAt != nil && !input.ExpiresAt.After(s.nowFunc()) {
		fields = append(fields, "expires_at")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validOriginalURL(raw string) bool {
	if raw == "" || len(raw) > maxURLLength {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func validCustomCode(code string) bool {
	if len(code) < minCustomCode || len(code) > maxCustomCode {
		return false
	}
	return customCodeRe.MatchString(code)
}
