package service

import (
	"testing"
	"time"

	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/imirazimi/shortlink/internal/geo"
	"go.uber.org/zap"
)

func TestClickConsumer_Enrich(t *testing.T) {
	geoReader, err := geo.Open("")
	if err != nil {
		t.Fatalf("geo.Open returned error: %v", err)
	}
	c := NewClickConsumer(nil, zap.NewNop(), &mockClickRepository{}, geoReader)

	event := &model.ClickEvent{
		ID:        "ev-1",
		LinkID:    "id-1",
		IPAddress: "192.0.2.1",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		ClickedAt: time.Now(),
	}
	c.enrich(event)

	if event.Browser == "" {
		t.Fatal("expected browser to be derived from the user agent")
	}
	if event.Bot {
		t.Fatal("a desktop Chrome UA must not be flagged as a bot")
	}
	// No GeoIP database configured, so the country stays empty.
	if event.Country != "" {
		t.Fatalf("expected empty country without a GeoIP database, got %q", event.Country)
	}
}

func TestClickConsumer_EnrichBot(t *testing.T) {
	c := NewClickConsumer(nil, zap.NewNop(), &mockClickRepository{}, &geo.Reader{})

	event := &model.ClickEvent{
		ID:        "ev-2",
		LinkID:    "id-1",
		UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	}
	c.enrich(event)

	if !event.Bot {
		t.Fatal("expected Googlebot UA to be flagged as a bot")
	}
}

func TestClickConsumer_EnrichPreservesCapturedMetadata(t *testing.T) {
	c := NewClickConsumer(nil, zap.NewNop(), &mockClickRepository{}, &geo.Reader{})

	event := &model.ClickEvent{
		IPAddress: "203.0.113.9",
		UserAgent: "curl/8.5.0",
		Referer:   "https://news.example.org/item/42",
	}
	c.enrich(event)

	if event.IPAddress != "203.0.113.9" || event.Referer != "https://news.example.org/item/42" {
		t.Fatal("enrichment must not rewrite captured request metadata")
	}
}
