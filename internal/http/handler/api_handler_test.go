package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/imirazimi/shortlink/internal/app/service"
)

func newTestAPIApp(svc service.LinkService) *fiber.App {
	app := fiber.New()
	NewAPIHandler(APIDeps{LinkService: svc, BaseURL: "https://sho.rt"}).Register(app)
	return app
}

func TestCreateLinkEndpoint(t *testing.T) {
	svc := &mockLinkService{
		createFn: func(ctx context.Context, input service.CreateLinkInput) (*model.Link, error) {
			if input.OriginalURL != "https://example.com/x" {
				t.Fatalf("unexpected url %q", input.OriginalURL)
			}
			if input.OwnerID == nil || *input.OwnerID != "user-1" {
				t.Fatalf("expected owner from header, got %v", input.OwnerID)
			}
			return &model.Link{ID: "id-1", ShortCode: "Xy9kP2", OriginalURL: input.OriginalURL}, nil
		},
	}
	app := newTestAPIApp(svc)

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"url":"https://example.com/x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(OwnerHeader, "user-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body LinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ShortCode != "Xy9kP2" {
		t.Fatalf("expected short code in response, got %q", body.ShortCode)
	}
	if body.ShortURL != "https://sho.rt/Xy9kP2" {
		t.Fatalf("expected full short url, got %q", body.ShortURL)
	}
	if body.ClickCount != 0 {
		t.Fatalf("expected zero clicks, got %d", body.ClickCount)
	}
}

func TestCreateLinkEndpoint_Validation(t *testing.T) {
	svc := &mockLinkService{
		createFn: func(ctx context.Context, input service.CreateLinkInput) (*model.Link, error) {
			return nil, &service.ValidationError{Fields: []string{"original_url"}}
		},
	}
	app := newTestAPIApp(svc)

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"url":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateLinkEndpoint_Conflict(t *testing.T) {
	svc := &mockLinkService{
		createFn: func(ctx context.Context, input service.CreateLinkInput) (*model.Link, error) {
			return nil, service.ErrConflict
		},
	}
	app := newTestAPIApp(svc)

	req := httptest.NewRequest("POST", "/api/links", strings.NewReader(`{"url":"https://example.com","custom_code":"abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestDeleteLinkEndpoint_NotFound(t *testing.T) {
	app := newTestAPIApp(&mockLinkService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/links/missing", nil))
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteLinkEndpoint_Forbidden(t *testing.T) {
	svc := &mockLinkService{
		deleteFn: func(ctx context.Context, code, actor string) error {
			return service.ErrNotOwner
		},
	}
	app := newTestAPIApp(svc)

	req := httptest.NewRequest("DELETE", "/api/links/abc123", nil)
	req.Header.Set(OwnerHeader, "user-2")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
