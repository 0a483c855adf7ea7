package response

import (
	model "github.com/sh5080/devscan-go/pkg/types/models"
)

// Scan은 스캔 성공 응답입니다
type Scan struct {
	Success    bool                     `json:"success"`
	ScanID     string                   `json:"scanId"`
	Barcodes   []model.BarcodeDetection `json:"barcodes"`
	TextLines  []string                 `json:"textLines"`
	DeviceInfo model.DeviceIdentity     `json:"deviceInfo"`
	ImageURL   string                   `json:"imageUrl"`
	Fallback   bool                     `json:"fallback"`
}

// ScanError는 스캔 실패 응답입니다. 요청 형식 오류에는 Error와 Kind가 비어 있습니다.
type ScanError struct {
	Success  bool              `json:"success"`
	ScanID   string            `json:"scanId,omitempty"`
	Message  string            `json:"message"`
	Error    string            `json:"error,omitempty"`
	Kind     model.FailureKind `json:"kind,omitempty"`
	ImageURL string            `json:"imageUrl,omitempty"`
}

// DeleteImage는 이미지 삭제 응답입니다
type DeleteImage struct {
	Success bool `json:"success"`
}
