package model

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

func TestClickEvent_DeleteCascadesFromLink(t *testing.T) {
	s, err := schema.Parse(&ClickEvent{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("schema.Parse returned error: %v", err)
	}

	rel, ok := s.Relationships.Relations["Link"]
	if !ok {
		t.Fatal("expected click_events to declare a relationship to links")
	}

	constraint := rel.ParseConstraint()
	if constraint == nil {
		t.Fatal("expected a foreign key constraint on link_id")
	}
	if constraint.OnDelete != "CASCADE" {
		t.Fatalf("deleting a link must cascade to its click events, got ON DELETE %q", constraint.OnDelete)
	}
}
