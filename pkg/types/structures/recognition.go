package structures

// RecognitionRequest는 인식 서비스 요청 본문입니다 (data URI 접두사 없는 base64)
type RecognitionRequest struct {
	Image string `json:"image"`
}

// RawBarcode는 인식 서비스가 반환하는 바코드 항목입니다
type RawBarcode struct {
	Type   string `json:"type"`
	Data   string `json:"data"`
	Format string `json:"format,omitempty"`
}

// RawDeviceInfo는 인식 서비스 또는 호출자가 직접 전달하는 장비 정보입니다.
// 서비스 버전에 따라 필드 이름이 다르므로 두 가지 이름을 모두 받습니다.
type RawDeviceInfo struct {
	SerialNumber string `json:"serialNumber,omitempty"`
	ProductionSN string `json:"productionSN,omitempty"`
	GponSN       string `json:"gponSN,omitempty"`
	GponSNHex    string `json:"gponSNHex,omitempty"`
	WanMAC       string `json:"wanMAC,omitempty"`
	VoipMAC      string `json:"voipMAC,omitempty"`
	Model        string `json:"model,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	PartNo       string `json:"partNo,omitempty"`
	Date         string `json:"date,omitempty"`
}

// RecognitionResponse는 인식 서비스의 성공 응답입니다
type RecognitionResponse struct {
	Barcodes   []RawBarcode   `json:"barcodes"`
	TextLines  []string       `json:"text_lines"`
	DeviceInfo *RawDeviceInfo `json:"device_info"`
}

// RecognitionError는 인식 서비스의 오류 응답입니다
type RecognitionError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
