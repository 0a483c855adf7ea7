package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sh5080/devscan-go/pkg/configs"
	model "github.com/sh5080/devscan-go/pkg/types/models"
)

func TestInMemoryScanAuditRepository(t *testing.T) {
	repo := NewInMemoryScanAuditRepository()
	ctx := context.Background()

	result := model.NewFailedResult(model.NewScanFailure(model.FailureTimeout, "slow"), &model.StoredImage{PublicURL: "/uploads/scanned/a.jpg"})
	audit := model.NewScanAudit("scan-1", "direct", result, 1500*time.Millisecond, time.Hour)

	if err := repo.SaveScanAudit(ctx, audit); err != nil {
		t.Fatalf("SaveScanAudit() error = %v", err)
	}

	got, err := repo.GetScanAudit(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetScanAudit() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected stored audit")
	}
	if got.FailureKind != model.FailureTimeout || got.ImageURL != "/uploads/scanned/a.jpg" || got.DurationMs != 1500 {
		t.Errorf("unexpected audit %+v", got)
	}

	missing, err := repo.GetScanAudit(ctx, "scan-404")
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown id, got %+v (%v)", missing, err)
	}
}

func TestInMemoryScanAuditRepository_Expired(t *testing.T) {
	repo := NewInMemoryScanAuditRepository()
	ctx := context.Background()

	audit := model.NewScanAudit("scan-old", "upload", &model.ScanResult{}, 0, time.Hour)
	audit.ExpiresAt = time.Now().Add(-time.Minute).Unix()

	if err := repo.SaveScanAudit(ctx, audit); err != nil {
		t.Fatalf("SaveScanAudit() error = %v", err)
	}
	if got, _ := repo.GetScanAudit(ctx, "scan-old"); got != nil {
		t.Errorf("expired audit must not be returned, got %+v", got)
	}
}

func TestInMemoryScanAuditRepository_RejectsEmptyID(t *testing.T) {
	repo := NewInMemoryScanAuditRepository()
	if err := repo.SaveScanAudit(context.Background(), &model.ScanAudit{}); err == nil {
		t.Error("expected error for empty scan id")
	}
}

func TestNewScanAuditRepository_DefaultsToMemory(t *testing.T) {
	cfg := &configs.EnvConfig{}
	repo, err := NewScanAuditRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewScanAuditRepository() error = %v", err)
	}
	if _, ok := repo.(*InMemoryScanAuditRepository); !ok {
		t.Errorf("expected in-memory repository, got %T", repo)
	}
}
