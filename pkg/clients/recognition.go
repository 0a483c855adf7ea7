package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/sh5080/devscan-go/pkg/services/normalizer"
	constants "github.com/sh5080/devscan-go/pkg/types"
	model "github.com/sh5080/devscan-go/pkg/types/models"
	structure "github.com/sh5080/devscan-go/pkg/types/structures"
	"github.com/sh5080/devscan-go/pkg/utils"
)

const recognitionAPIName = "recognition"

// RecognitionClient는 외부 바코드/텍스트 인식 서비스 요청을 처리하는 클라이언트입니다.
// 호출별 상태를 갖지 않으므로 여러 요청에서 동시에 사용할 수 있습니다.
type RecognitionClient struct {
	endpoint      string
	maxImageBytes int64
	client        *http.Client
}

// NewRecognitionClient는 새로운 인식 서비스 클라이언트를 생성합니다.
// timeout과 maxImageBytes가 0 이하이면 기본값(30초, 10MiB)을 사용합니다.
func NewRecognitionClient(endpoint string, timeout time.Duration, maxImageBytes int64) *RecognitionClient {
	if timeout <= 0 {
		timeout = constants.RECOGNITION_TIMEOUT
	}
	if maxImageBytes <= 0 {
		maxImageBytes = constants.MAX_IMAGE_BYTES
	}

	return &RecognitionClient{
		endpoint:      endpoint,
		maxImageBytes: maxImageBytes,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Scan은 저장된 이미지 파일을 인식 서비스로 보냅니다.
// 네트워크 요청 전에 파일 존재 여부와 크기를 순서대로 확인합니다.
func (c *RecognitionClient) Scan(ctx context.Context, imagePath string) (*model.Recognition, error) {
	info, err := os.Stat(imagePath)
	if err != nil || info.IsDir() {
		return model.EmptyRecognition(), model.NewScanFailure(model.FailureNotFound, "이미지 파일을 찾을 수 없습니다: %s", imagePath)
	}

	if failure := c.checkSize(info.Size()); failure != nil {
		return model.EmptyRecognition(), failure
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return model.EmptyRecognition(), model.NewScanFailure(model.FailureNotFound, "이미지 파일 읽기 실패: %v", err)
	}

	return c.send(ctx, data)
}

// ScanBytes는 메모리의 이미지 데이터를 인식 서비스로 보냅니다. 크기만 확인합니다.
func (c *RecognitionClient) ScanBytes(ctx context.Context, data []byte) (*model.Recognition, error) {
	if failure := c.checkSize(int64(len(data))); failure != nil {
		return model.EmptyRecognition(), failure
	}
	return c.send(ctx, data)
}

// checkSize는 이미지 크기 제한을 확인합니다. 제한과 정확히 같은 크기는 허용됩니다.
func (c *RecognitionClient) checkSize(size int64) *model.ScanFailure {
	if size <= c.maxImageBytes {
		return nil
	}
	return model.NewScanFailure(model.FailureTooLarge,
		"이미지가 너무 큽니다: %.2fMB (최대 %.0fMB)", toMB(size), toMB(c.maxImageBytes))
}

func toMB(size int64) float64 {
	return float64(size) / (1024 * 1024)
}

// send는 base64로 인코딩한 이미지를 인식 서비스에 POST하고 응답을 변환합니다
func (c *RecognitionClient) send(ctx context.Context, data []byte) (*model.Recognition, error) {
	payload, err := json.Marshal(structure.RecognitionRequest{
		Image: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return model.EmptyRecognition(), model.NewScanFailure(model.FailureInvalidInput, "요청 생성 실패: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.EmptyRecognition(), model.NewScanFailure(model.FailureServiceUnreachable, "요청 생성 실패: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		utils.RecordApiCall(recognitionAPIName, 0, time.Since(start).Seconds())
		return model.EmptyRecognition(), classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	utils.RecordApiCall(recognitionAPIName, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		return model.EmptyRecognition(), classifyTransportError(err)
	}

	// 응답 상태 확인
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		failure := model.NewScanFailure(model.FailureServiceError,
			"인식 서비스 오류: %d - %s", resp.StatusCode, errorText(body))
		failure.StatusCode = resp.StatusCode
		return model.EmptyRecognition(), failure
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.EmptyRecognition(), model.NewScanFailure(model.FailureEmptyResponse, "인식 서비스 응답이 비어 있습니다")
	}

	// 응답 JSON 파싱
	var recognitionResp structure.RecognitionResponse
	if err := json.Unmarshal(trimmed, &recognitionResp); err != nil {
		failure := model.NewScanFailure(model.FailureServiceError, "응답 파싱 실패: %v", err)
		failure.StatusCode = resp.StatusCode
		return model.EmptyRecognition(), failure
	}

	utils.Debug("recognition", "인식 완료: 바코드 %d개, 텍스트 %d줄 (%v)",
		len(recognitionResp.Barcodes), len(recognitionResp.TextLines), time.Since(start))

	return toRecognition(&recognitionResp), nil
}

// toRecognition은 서비스 응답을 Recognition으로 변환합니다. 타입이나 데이터가 빈 항목은 제외됩니다.
func toRecognition(resp *structure.RecognitionResponse) *model.Recognition {
	recognition := model.EmptyRecognition()

	for _, barcode := range resp.Barcodes {
		if barcode.Type == "" || barcode.Data == "" {
			continue
		}
		recognition.Detections = append(recognition.Detections, model.BarcodeDetection{
			Kind:   model.BarcodeKindFromLabel(barcode.Type),
			Label:  barcode.Type,
			Data:   barcode.Data,
			Format: barcode.Format,
		})
	}

	if resp.TextLines != nil {
		recognition.TextLines = resp.TextLines
	}

	if resp.DeviceInfo != nil {
		recognition.DeviceInfo = serviceDeviceInfo(resp.DeviceInfo)
	}

	return recognition
}

// serviceDeviceInfo는 서비스 장비 정보에서 시리얼 번호, 모델, 제조사만 가져옵니다.
// 나머지 필드는 바코드보다 신뢰도가 낮아 설정하지 않습니다.
func serviceDeviceInfo(info *structure.RawDeviceInfo) model.DeviceIdentity {
	return normalizer.FromDeviceInfo(structure.RawDeviceInfo{
		SerialNumber: info.SerialNumber,
		Model:        info.Model,
		Manufacturer: info.Manufacturer,
	})
}

// errorText는 오류 응답 본문에서 서버 메시지를 추출합니다
func errorText(body []byte) string {
	var errResp structure.RecognitionError
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return "Unknown error"
}

// classifyTransportError는 응답을 받지 못한 요청 오류를 실패 유형으로 분류합니다
func classifyTransportError(err error) *model.ScanFailure {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return model.NewScanFailure(model.FailureServiceUnreachable, "인식 서비스에 연결할 수 없습니다: %v", err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return model.NewScanFailure(model.FailureTimeout, "인식 서비스 응답 시간 초과: %v", err)
	}

	return model.NewScanFailure(model.FailureServiceUnreachable, "인식 서비스 응답 없음: %v", err)
}
