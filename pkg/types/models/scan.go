package model

import "fmt"

// BarcodeKind는 인식 서비스가 분류한 바코드 종류입니다
type BarcodeKind int

const (
	BarcodeUnknown BarcodeKind = iota
	BarcodeSerialNumber
	BarcodeGponSerialNumber
	BarcodeMacAddress
)

// 인식 서비스가 사용하는 바코드 타입 라벨
const (
	LabelSerialNumber     = "S/N"
	LabelGponSerialNumber = "GPON S/N"
	LabelMacAddress       = "MAC"
	LabelUnknown          = "Unknown"
)

// BarcodeKindFromLabel은 서비스 라벨을 BarcodeKind로 변환합니다
func BarcodeKindFromLabel(label string) BarcodeKind {
	switch label {
	case LabelSerialNumber:
		return BarcodeSerialNumber
	case LabelGponSerialNumber:
		return BarcodeGponSerialNumber
	case LabelMacAddress:
		return BarcodeMacAddress
	default:
		return BarcodeUnknown
	}
}

func (k BarcodeKind) String() string {
	switch k {
	case BarcodeSerialNumber:
		return "SerialNumber"
	case BarcodeGponSerialNumber:
		return "GponSerialNumber"
	case BarcodeMacAddress:
		return "MacAddress"
	default:
		return "Unknown"
	}
}

// BarcodeDetection은 인식 서비스가 반환한 바코드 한 건입니다.
// Label과 Format은 진단용이며 정규화에는 Kind와 Data만 사용됩니다.
type BarcodeDetection struct {
	Kind   BarcodeKind `json:"-"`
	Label  string      `json:"type"`
	Data   string      `json:"data"`
	Format string      `json:"format,omitempty"`
}

// DeviceIdentity는 정규화된 장비 식별 정보입니다.
// nil 필드는 "인식되지 않음"을 의미하며 빈 문자열과 구분됩니다.
type DeviceIdentity struct {
	ProductionSerialNumber *string `json:"productionSerialNumber"`
	GponSerialNumber       *string `json:"gponSerialNumber"`
	GponSerialNumberHex    *string `json:"gponSerialNumberHex"`
	WanMac                 *string `json:"wanMac"`
	VoipMac                *string `json:"voipMac"`
	Model                  *string `json:"model"`
	Manufacturer           *string `json:"manufacturer"`
	PartNumber             *string `json:"partNumber"`
	ManufactureDate        *string `json:"manufactureDate"`
}

func (d *DeviceIdentity) fields() []**string {
	return []**string{
		&d.ProductionSerialNumber,
		&d.GponSerialNumber,
		&d.GponSerialNumberHex,
		&d.WanMac,
		&d.VoipMac,
		&d.Model,
		&d.Manufacturer,
		&d.PartNumber,
		&d.ManufactureDate,
	}
}

// IsEmpty는 모든 필드가 설정되지 않았는지 확인합니다
func (d DeviceIdentity) IsEmpty() bool {
	for _, field := range d.fields() {
		if *field != nil {
			return false
		}
	}
	return true
}

// FillMissing은 설정되지 않은 필드만 other의 값으로 채웁니다
func (d *DeviceIdentity) FillMissing(other DeviceIdentity) {
	own := d.fields()
	for i, field := range other.fields() {
		if *own[i] == nil && *field != nil {
			value := **field
			*own[i] = &value
		}
	}
}

// FailureKind는 스캔 실패 유형입니다
type FailureKind string

const (
	FailureNotFound           FailureKind = "NotFound"
	FailureTooLarge           FailureKind = "TooLarge"
	FailureServiceUnreachable FailureKind = "ServiceUnreachable"
	FailureServiceError       FailureKind = "ServiceError"
	FailureTimeout            FailureKind = "Timeout"
	FailureInvalidInput       FailureKind = "InvalidInput"
	FailureEmptyResponse      FailureKind = "EmptyResponse"
	FailureStorageError       FailureKind = "StorageError"
)

// ScanFailure는 스캔 파이프라인의 실패 결과입니다
type ScanFailure struct {
	Kind       FailureKind `json:"kind"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode,omitempty"`
}

// NewScanFailure는 메시지를 포맷하여 ScanFailure를 생성합니다
func NewScanFailure(kind FailureKind, format string, args ...interface{}) *ScanFailure {
	return &ScanFailure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *ScanFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// IsCallerError는 호출자 입력 오류인지 확인합니다
func (f *ScanFailure) IsCallerError() bool {
	return f.Kind == FailureTooLarge || f.Kind == FailureInvalidInput
}

// IsUpstreamError는 인식 서비스 의존성 오류인지 확인합니다
func (f *ScanFailure) IsUpstreamError() bool {
	switch f.Kind {
	case FailureServiceUnreachable, FailureServiceError, FailureTimeout, FailureEmptyResponse:
		return true
	}
	return false
}

// Recognition은 인식 서비스 클라이언트의 결과입니다. 실패 시에도 빈 목록을 가집니다.
type Recognition struct {
	Detections []BarcodeDetection
	TextLines  []string
	DeviceInfo DeviceIdentity
}

// EmptyRecognition은 빈 인식 결과를 반환합니다
func EmptyRecognition() *Recognition {
	return &Recognition{
		Detections: []BarcodeDetection{},
		TextLines:  []string{},
	}
}

// StoredImage는 저장된 이미지의 위치 정보입니다
type StoredImage struct {
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl"`
	Filename  string `json:"filename"`
}

// ScanResult는 스캔 요청 하나의 최종 결과입니다.
// Failure가 설정되면 Identity는 비어 있고 Detections와 TextLines도 비어 있습니다.
type ScanResult struct {
	Detections  []BarcodeDetection
	TextLines   []string
	Identity    DeviceIdentity
	StoredImage *StoredImage
	Failure     *ScanFailure
	Fallback    bool
}

// NewFailedResult는 실패한 스캔 결과를 생성합니다
func NewFailedResult(failure *ScanFailure, stored *StoredImage) *ScanResult {
	return &ScanResult{
		Detections:  []BarcodeDetection{},
		TextLines:   []string{},
		StoredImage: stored,
		Failure:     failure,
	}
}

// ImageURL은 저장된 이미지의 공개 URL을 반환합니다
func (r *ScanResult) ImageURL() string {
	if r.StoredImage == nil {
		return ""
	}
	return r.StoredImage.PublicURL
}
