package controller

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	constants "github.com/sh5080/devscan-go/pkg/types"
	requestDto "github.com/sh5080/devscan-go/pkg/types/dtos/requests"
	responseDto "github.com/sh5080/devscan-go/pkg/types/dtos/responses"
	model "github.com/sh5080/devscan-go/pkg/types/models"
	"github.com/sh5080/devscan-go/pkg/utils"
)

// 감사 기록 저장 제한 시간
const auditTimeout = 10 * time.Second

// 스캔 요청 출처 (감사 기록용)
const (
	sourceDirect = "direct"
	sourceUpload = "upload"
	sourceStored = "stored"
)

// DirectScan은 data URI 이미지 스캔 요청을 처리하는 핸들러입니다
func DirectScan(scanService _interface.ScanService, auditRepository _interface.ScanAuditRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req requestDto.DirectScanRequest
		if err := utils.ParseBodyAndValidate(c, &req); err != nil {
			return badRequest(c, err)
		}

		start := time.Now()
		result := scanService.PerformScan(c.UserContext(), req.ImageData)
		return respondScan(c, result, sourceDirect, start, auditRepository)
	}
}

// UploadScan은 multipart 이미지 업로드 스캔 요청을 처리하는 핸들러입니다
func UploadScan(scanService _interface.ScanService, auditRepository _interface.ScanAuditRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return badRequest(c, fiber.NewError(fiber.StatusBadRequest, "image 파일이 필요합니다"))
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
		if !slices.Contains(constants.ALLOWED_UPLOAD_EXTENSIONS, ext) {
			return badRequest(c, fiber.NewError(fiber.StatusBadRequest,
				"허용되지 않은 파일 형식입니다 (jpeg, jpg, png, gif만 가능)"))
		}

		file, err := fileHeader.Open()
		if err != nil {
			return badRequest(c, fiber.NewError(fiber.StatusBadRequest, "업로드 파일을 열 수 없습니다"))
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return badRequest(c, fiber.NewError(fiber.StatusBadRequest, "업로드 파일을 읽을 수 없습니다"))
		}

		start := time.Now()
		result := scanService.ScanBytes(c.UserContext(), data, constants.UPLOAD_SCAN_PREFIX)
		return respondScan(c, result, sourceUpload, start, auditRepository)
	}
}

// RescanImage는 저장된 이미지를 다시 스캔하는 핸들러입니다
func RescanImage(scanService _interface.ScanService, auditRepository _interface.ScanAuditRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		result := scanService.ScanStored(c.UserContext(), c.Params("filename"))
		return respondScan(c, result, sourceStored, start, auditRepository)
	}
}

// DeleteImage는 저장된 이미지를 삭제하는 핸들러입니다
func DeleteImage(storage _interface.ImageStorage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !storage.Delete(c.Params("filename")) {
			return c.Status(fiber.StatusNotFound).JSON(responseDto.DeleteImage{Success: false})
		}
		return c.JSON(responseDto.DeleteImage{Success: true})
	}
}

// respondScan은 스캔 결과를 응답으로 변환하고 감사 기록을 비동기로 남깁니다
func respondScan(c *fiber.Ctx, result *model.ScanResult, source string, start time.Time, auditRepository _interface.ScanAuditRepository) error {
	scanID := uuid.New().String()
	saveAudit(auditRepository, model.NewScanAudit(scanID, source, result, time.Since(start), constants.SCAN_AUDIT_TTL))

	if result.Failure != nil {
		status := fiber.StatusInternalServerError
		if result.Failure.Kind == model.FailureInvalidInput {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(responseDto.ScanError{
			Success:  false,
			ScanID:   scanID,
			Message:  "이미지 스캔에 실패했습니다",
			Error:    result.Failure.Message,
			Kind:     result.Failure.Kind,
			ImageURL: result.ImageURL(),
		})
	}

	return c.JSON(responseDto.Scan{
		Success:    true,
		ScanID:     scanID,
		Barcodes:   result.Detections,
		TextLines:  result.TextLines,
		DeviceInfo: result.Identity,
		ImageURL:   result.ImageURL(),
		Fallback:   result.Fallback,
	})
}

// saveAudit는 감사 기록을 비동기로 저장합니다 (응답에 영향 없음)
func saveAudit(auditRepository _interface.ScanAuditRepository, audit *model.ScanAudit) {
	if auditRepository == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if err := auditRepository.SaveScanAudit(ctx, audit); err != nil {
			utils.Warn("audit", "스캔 감사 기록 저장 실패 (%s): %v", audit.ScanID, err)
		}
	}()
}

// badRequest는 요청 형식 오류를 400 응답으로 변환합니다
func badRequest(c *fiber.Ctx, err error) error {
	message := err.Error()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message = fiberErr.Message
	}

	return c.Status(fiber.StatusBadRequest).JSON(responseDto.ScanError{
		Success: false,
		Message: message,
	})
}
