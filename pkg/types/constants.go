package constants

import "time"

// 이미지 경계 상자 (픽셀). 가로가 긴 이미지는 너비, 그 외에는 높이 기준으로 축소
const (
	MAX_IMAGE_WIDTH  = 2280
	MAX_IMAGE_HEIGHT = 2220
	JPEG_QUALITY     = 70         // 0.7 (0-1 기준)
	MAX_IMAGE_PIXELS = 50_000_000 // 디코딩 허용 최대 픽셀 수 (50MP)
)

// 인식 서비스 제한
const (
	MAX_IMAGE_BYTES     = 10 * 1024 * 1024 // 10 MiB
	RECOGNITION_TIMEOUT = 30 * time.Second
)

// data URI 접두사
const (
	DATA_IMAGE_PREFIX = "data:image"
)

// 저장 파일 접두사
const (
	DIRECT_SCAN_PREFIX = "gpon"
	UPLOAD_SCAN_PREFIX = "images"
)

// 업로드 허용 이미지 확장자
var ALLOWED_UPLOAD_EXTENSIONS = []string{"jpg", "jpeg", "png", "gif"}

// 스캔 감사 로그 보관 기간
const SCAN_AUDIT_TTL = 30 * 24 * time.Hour
