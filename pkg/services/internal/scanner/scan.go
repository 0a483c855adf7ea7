package scanner

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/h2non/filetype"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	"github.com/sh5080/devscan-go/pkg/services/normalizer"
	constants "github.com/sh5080/devscan-go/pkg/types"
	model "github.com/sh5080/devscan-go/pkg/types/models"
	"github.com/sh5080/devscan-go/pkg/utils"
)

// data:image/<포맷>;base64, 접두사
var dataURIPattern = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// ScanImpl는 스캔 오케스트레이터 구현체입니다
type ScanImpl struct {
	client        _interface.RecognitionClient
	storage       _interface.ImageStorage
	maxImageBytes int64
}

// NewScanService는 새 스캔 서비스를 생성합니다
func NewScanService(client _interface.RecognitionClient, storage _interface.ImageStorage, maxImageBytes int64) _interface.ScanService {
	if maxImageBytes <= 0 {
		maxImageBytes = constants.MAX_IMAGE_BYTES
	}
	return &ScanImpl{
		client:        client,
		storage:       storage,
		maxImageBytes: maxImageBytes,
	}
}

// PerformScan은 data URI 형식의 이미지를 디코딩, 경계 처리, 저장한 뒤 인식합니다
func (s *ScanImpl) PerformScan(ctx context.Context, imageData string) *model.ScanResult {
	start := time.Now()
	defer recordDuration(start)

	if !strings.HasPrefix(imageData, constants.DATA_IMAGE_PREFIX) {
		return s.fail(model.NewScanFailure(model.FailureInvalidInput, "이미지 데이터는 %s 형식이어야 합니다", constants.DATA_IMAGE_PREFIX), nil)
	}

	prefix := dataURIPattern.FindString(imageData)
	if prefix == "" {
		return s.fail(model.NewScanFailure(model.FailureInvalidInput, "base64 data URI 형식이 아닙니다"), nil)
	}

	data, err := base64.StdEncoding.DecodeString(imageData[len(prefix):])
	if err != nil {
		return s.fail(model.NewScanFailure(model.FailureInvalidInput, "base64 디코딩 실패: %v", err), nil)
	}

	return s.boundAndScan(ctx, data, constants.DIRECT_SCAN_PREFIX)
}

// ScanBytes는 업로드된 이미지 바이트를 검사한 뒤 경계 처리, 저장, 인식합니다
func (s *ScanImpl) ScanBytes(ctx context.Context, data []byte, prefix string) *model.ScanResult {
	start := time.Now()
	defer recordDuration(start)

	if !filetype.IsImage(data) {
		return s.fail(model.NewScanFailure(model.FailureInvalidInput, "이미지 파일만 업로드할 수 있습니다"), nil)
	}

	if int64(len(data)) > s.maxImageBytes {
		return s.fail(model.NewScanFailure(model.FailureTooLarge,
			"이미지가 너무 큽니다: %.2fMB (최대 %.0fMB)", toMB(int64(len(data))), toMB(s.maxImageBytes)), nil)
	}

	return s.boundAndScan(ctx, data, prefix)
}

// ScanStored는 이미 저장된 이미지를 다시 인식합니다. 저장소에 쓰지 않습니다.
func (s *ScanImpl) ScanStored(ctx context.Context, filename string) *model.ScanResult {
	start := time.Now()
	defer recordDuration(start)

	path, err := s.storage.Resolve(filename)
	if err != nil {
		return s.fail(model.NewScanFailure(model.FailureInvalidInput, "%v", err), nil)
	}

	stored := &model.StoredImage{
		Path:      path,
		PublicURL: s.storage.PublicURL(filename),
		Filename:  filename,
	}

	recognition, err := s.client.Scan(ctx, path)
	if err != nil {
		failure := asFailure(err)
		if failure.Kind == model.FailureNotFound {
			stored = nil
		}
		return s.fail(failure, stored)
	}

	return s.assemble(recognition, stored)
}

// boundAndScan은 경계 처리한 이미지를 한 번 저장하고 인식 서비스를 한 번 호출합니다
func (s *ScanImpl) boundAndScan(ctx context.Context, data []byte, prefix string) *model.ScanResult {
	bounded, dims, err := utils.BoundImage(data)
	if err != nil {
		return s.fail(model.NewScanFailure(model.FailureInvalidInput, "%v", err), nil)
	}

	stored, err := s.storage.Store(bounded, prefix)
	if err != nil {
		return s.fail(model.NewScanFailure(model.FailureStorageError, "이미지 저장 실패: %v", err), nil)
	}

	utils.Debug("scan", "이미지 저장: %s (%dx%d)", stored.Filename, dims.Width, dims.Height)

	recognition, err := s.client.Scan(ctx, stored.Path)
	if err != nil {
		return s.fail(asFailure(err), stored)
	}

	return s.assemble(recognition, stored)
}

// assemble은 인식 결과를 정규화하여 최종 결과를 만듭니다.
// 우선순위: 바코드 > 텍스트 라인 > 서비스 장비 정보
func (s *ScanImpl) assemble(recognition *model.Recognition, stored *model.StoredImage) *model.ScanResult {
	result := &model.ScanResult{
		Detections:  recognition.Detections,
		TextLines:   recognition.TextLines,
		StoredImage: stored,
	}

	switch {
	case len(recognition.Detections) > 0:
		result.Identity = normalizer.FromDetections(recognition.Detections)
		result.Identity.FillMissing(recognition.DeviceInfo)
	case len(recognition.TextLines) > 0:
		result.Identity = normalizer.FromTextLines(recognition.TextLines)
		result.Identity.FillMissing(recognition.DeviceInfo)
		result.Fallback = true
	default:
		result.Identity = recognition.DeviceInfo
		result.Fallback = !result.Identity.IsEmpty()
	}

	utils.Info("scan", "스캔 완료: 바코드 %d개, 텍스트 %d줄, fallback=%t, 이미지=%s",
		len(result.Detections), len(result.TextLines), result.Fallback, result.ImageURL())

	return result
}

// fail은 실패 유형에 맞게 로그와 메트릭을 남기고 실패 결과를 반환합니다
func (s *ScanImpl) fail(failure *model.ScanFailure, stored *model.StoredImage) *model.ScanResult {
	imageRef := ""
	if stored != nil {
		imageRef = stored.Filename
	}

	switch {
	case failure.IsCallerError():
		utils.Warn("scan", "잘못된 스캔 요청: %s", failure.Error())
	case failure.Kind == model.FailureNotFound:
		utils.Error("scan", "예상치 못한 오류, 이미지가 존재하지 않습니다: %s", failure.Error())
		utils.ScanErrorLog(string(failure.Kind), imageRef, failure.Message)
	default:
		utils.Error("scan", "스캔 실패: %s", failure.Error())
		utils.ScanErrorLog(string(failure.Kind), imageRef, failure.Message)
	}
	utils.RecordScanFailure(string(failure.Kind))

	return model.NewFailedResult(failure, stored)
}

// asFailure는 클라이언트 에러를 ScanFailure로 변환합니다
func asFailure(err error) *model.ScanFailure {
	var failure *model.ScanFailure
	if errors.As(err, &failure) {
		return failure
	}
	return model.NewScanFailure(model.FailureServiceError, "%v", err)
}

func recordDuration(start time.Time) {
	utils.RecordScanProcessingTime(time.Since(start).Seconds())
}

func toMB(size int64) float64 {
	return float64(size) / (1024 * 1024)
}
