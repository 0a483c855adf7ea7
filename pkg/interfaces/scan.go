package _interface

import (
	"context"

	model "github.com/sh5080/devscan-go/pkg/types/models"
)

// ScanService는 이미지 경계 처리, 저장, 인식, 정규화를 묶는 스캔 오케스트레이터입니다.
// 모든 메서드는 에러 대신 Failure가 설정된 ScanResult를 반환합니다.
type ScanService interface {
	// PerformScan은 data URI 형식의 이미지를 스캔합니다
	PerformScan(ctx context.Context, imageData string) *model.ScanResult

	// ScanBytes는 업로드된 원본 이미지 바이트를 스캔합니다
	ScanBytes(ctx context.Context, data []byte, prefix string) *model.ScanResult

	// ScanStored는 이미 저장된 이미지를 다시 스캔합니다
	ScanStored(ctx context.Context, filename string) *model.ScanResult
}

// ScanAuditRepository는 운영자용 스캔 감사 기록 저장소입니다
type ScanAuditRepository interface {
	SaveScanAudit(ctx context.Context, audit *model.ScanAudit) error
	GetScanAudit(ctx context.Context, scanID string) (*model.ScanAudit, error)
}
