package service

import (
	"context"
	"testing"
	"time"

	"github.com/imirazimi/shortlink/internal/app/model"
	"go.uber.org/zap"
)

func TestExpirySweeper_DeletesExpiredRows(t *testing.T) {
	repo := newMemoryLinkRepository()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := &model.Link{ID: "id-old", ShortCode: "oldcode", OriginalURL: "https://example.com", ExpiresAt: &past}
	alive := &model.Link{ID: "id-new", ShortCode: "newcode", OriginalURL: "https://example.com", ExpiresAt: &future}
	if err := repo.Create(context.Background(), expired); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(context.Background(), alive); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	sweeper := NewExpirySweeper(zap.NewNop(), repo, time.Minute)
	sweeper.sweep()

	if _, err := repo.GetByCode(context.Background(), "oldcode"); err == nil {
		t.Fatal("expected expired link to be deleted")
	}
	if _, err := repo.GetByCode(context.Background(), "newcode"); err != nil {
		t.Fatalf("live link must survive the sweep: %v", err)
	}
}

func TestExpirySweeper_StartStop(t *testing.T) {
	repo := newMemoryLinkRepository()
	sweeper := NewExpirySweeper(zap.NewNop(), repo, 10*time.Millisecond)
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
}
