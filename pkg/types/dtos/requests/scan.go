package request

// DirectScanRequest는 data URI 이미지 스캔 요청입니다
type DirectScanRequest struct {
	ImageData string `json:"imageData" validate:"required,prefix=data:image"`
}
