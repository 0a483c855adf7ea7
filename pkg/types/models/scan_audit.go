package model

import (
	"time"
)

// ScanAudit는 DynamoDB에 저장될 스캔 감사 기록을 나타냅니다.
type ScanAudit struct {
	ScanID         string         `json:"scanId" dynamodbav:"ScanID"`                     // 프라이머리 키
	Source         string         `json:"source" dynamodbav:"source"`                     // direct, upload, stored
	ImageURL       string         `json:"imageUrl" dynamodbav:"imageUrl,omitempty"`       // 저장된 이미지 공개 URL
	FailureKind    FailureKind    `json:"failureKind" dynamodbav:"failureKind,omitempty"` // 실패 유형 (성공 시 빈 값)
	FailureMessage string         `json:"failureMessage" dynamodbav:"failureMessage,omitempty"`
	BarcodeCount   int            `json:"barcodeCount" dynamodbav:"barcodeCount"`         // 인식된 바코드 수
	Identity       DeviceIdentity `json:"identity" dynamodbav:"identity"`                 // 정규화된 장비 정보
	Fallback       bool           `json:"fallback" dynamodbav:"fallback"`                 // 대체 경로 사용 여부
	DurationMs     int64          `json:"durationMs" dynamodbav:"durationMs"`             // 처리 시간
	CreatedAt      time.Time      `json:"createdAt" dynamodbav:"createdAt"`               // 생성 시간
	ExpiresAt      int64          `json:"expiresAt" dynamodbav:"expiresAt"`               // DynamoDB TTL (Unix 초)
}

// NewScanAudit는 스캔 결과로부터 감사 기록을 생성합니다
func NewScanAudit(scanID, source string, result *ScanResult, duration time.Duration, ttl time.Duration) *ScanAudit {
	now := time.Now()
	audit := &ScanAudit{
		ScanID:       scanID,
		Source:       source,
		ImageURL:     result.ImageURL(),
		BarcodeCount: len(result.Detections),
		Identity:     result.Identity,
		Fallback:     result.Fallback,
		DurationMs:   duration.Milliseconds(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl).Unix(),
	}
	if result.Failure != nil {
		audit.FailureKind = result.Failure.Kind
		audit.FailureMessage = result.Failure.Message
	}
	return audit
}
