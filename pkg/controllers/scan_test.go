package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	repository "github.com/sh5080/devscan-go/pkg/repositories"
	model "github.com/sh5080/devscan-go/pkg/types/models"
)

type fakeScanService struct {
	mu       sync.Mutex
	result   *model.ScanResult
	inputs   []string
	prefixes []string
}

func (f *fakeScanService) record(input, prefix string) *model.ScanResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	f.prefixes = append(f.prefixes, prefix)
	return f.result
}

func (f *fakeScanService) PerformScan(ctx context.Context, imageData string) *model.ScanResult {
	return f.record(imageData, "")
}

func (f *fakeScanService) ScanBytes(ctx context.Context, data []byte, prefix string) *model.ScanResult {
	return f.record(string(data), prefix)
}

func (f *fakeScanService) ScanStored(ctx context.Context, filename string) *model.ScanResult {
	return f.record(filename, "")
}

type fakeStorage struct {
	deletable map[string]bool
}

func (f *fakeStorage) Store(data []byte, prefix string) (*model.StoredImage, error) {
	return nil, nil
}

func (f *fakeStorage) Delete(filename string) bool {
	if f.deletable[filename] {
		delete(f.deletable, filename)
		return true
	}
	return false
}

func (f *fakeStorage) Resolve(filename string) (string, error) {
	return filename, nil
}

func (f *fakeStorage) PublicURL(filename string) string {
	return "/uploads/scanned/" + filename
}

func newTestApp(scanService _interface.ScanService, storage _interface.ImageStorage, audits _interface.ScanAuditRepository) *fiber.App {
	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/direct-scan", DirectScan(scanService, audits))
	api.Post("/upload-scan", UploadScan(scanService, audits))
	api.Get("/images/:filename/scan", RescanImage(scanService, audits))
	api.Delete("/images/:filename", DeleteImage(storage))
	return app
}

func strPtr(value string) *string {
	return &value
}

func successResult() *model.ScanResult {
	return &model.ScanResult{
		Detections: []model.BarcodeDetection{
			{Kind: model.BarcodeSerialNumber, Label: "S/N", Data: "SN001", Format: "CODE128"},
		},
		TextLines:   []string{},
		Identity:    model.DeviceIdentity{ProductionSerialNumber: strPtr("SN001")},
		StoredImage: &model.StoredImage{Filename: "gpon_1.jpg", PublicURL: "/uploads/scanned/gpon_1.jpg"},
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("response is not JSON: %s", raw)
	}
	return resp, decoded
}

func TestDirectScan_RequestValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing imageData", map[string]string{}},
		{"empty imageData", map[string]string{"imageData": ""}},
		{"missing prefix", map[string]string{"imageData": "iVBORw0KGgo="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanService := &fakeScanService{result: successResult()}
			app := newTestApp(scanService, &fakeStorage{}, repository.NewInMemoryScanAuditRepository())

			resp, body := postJSON(t, app, "/api/v1/direct-scan", tt.body)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
			if body["success"] != false || body["message"] == "" {
				t.Errorf("unexpected body %v", body)
			}
			if len(scanService.inputs) != 0 {
				t.Error("scan must not run for invalid request")
			}
		})
	}
}

func TestDirectScan_Success(t *testing.T) {
	scanService := &fakeScanService{result: successResult()}
	audits := repository.NewInMemoryScanAuditRepository()
	app := newTestApp(scanService, &fakeStorage{}, audits)

	resp, body := postJSON(t, app, "/api/v1/direct-scan", map[string]string{"imageData": "data:image/png;base64,AAAA"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}

	if body["success"] != true || body["imageUrl"] != "/uploads/scanned/gpon_1.jpg" || body["fallback"] != false {
		t.Errorf("unexpected body %v", body)
	}

	barcodes := body["barcodes"].([]interface{})
	first := barcodes[0].(map[string]interface{})
	if first["type"] != "S/N" || first["data"] != "SN001" {
		t.Errorf("unexpected barcode %v", first)
	}

	deviceInfo := body["deviceInfo"].(map[string]interface{})
	if deviceInfo["productionSerialNumber"] != "SN001" {
		t.Errorf("unexpected deviceInfo %v", deviceInfo)
	}
	if value, ok := deviceInfo["wanMac"]; !ok || value != nil {
		t.Errorf("unset fields must serialize as null, got %v", deviceInfo)
	}

	scanID, _ := body["scanId"].(string)
	if scanID == "" {
		t.Fatal("expected scanId in response")
	}
	if !waitForAudit(t, audits, scanID) {
		t.Errorf("expected audit entry for %s", scanID)
	}
}

func TestDirectScan_FailureStatus(t *testing.T) {
	tests := []struct {
		kind     model.FailureKind
		expected int
	}{
		{model.FailureInvalidInput, fiber.StatusBadRequest},
		{model.FailureServiceUnreachable, fiber.StatusInternalServerError},
		{model.FailureTimeout, fiber.StatusInternalServerError},
		{model.FailureTooLarge, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			stored := &model.StoredImage{Filename: "gpon_2.jpg", PublicURL: "/uploads/scanned/gpon_2.jpg"}
			scanService := &fakeScanService{result: model.NewFailedResult(model.NewScanFailure(tt.kind, "detail"), stored)}
			app := newTestApp(scanService, &fakeStorage{}, repository.NewInMemoryScanAuditRepository())

			resp, body := postJSON(t, app, "/api/v1/direct-scan", map[string]string{"imageData": "data:image/png;base64,AAAA"})
			if resp.StatusCode != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, resp.StatusCode)
			}
			if body["success"] != false || body["kind"] != string(tt.kind) || body["error"] != "detail" || body["message"] == "" {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(content)
	} else {
		writer.WriteField("note", "no file")
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-scan", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadScan(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		scanService := &fakeScanService{result: successResult()}
		app := newTestApp(scanService, &fakeStorage{}, repository.NewInMemoryScanAuditRepository())

		resp, body := do(t, app, multipartRequest(t, "image", "label.JPG", []byte("image-bytes")))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
		}
		if len(scanService.inputs) != 1 || scanService.inputs[0] != "image-bytes" || scanService.prefixes[0] != "images" {
			t.Errorf("unexpected scan call %v %v", scanService.inputs, scanService.prefixes)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		scanService := &fakeScanService{result: successResult()}
		app := newTestApp(scanService, &fakeStorage{}, repository.NewInMemoryScanAuditRepository())

		resp, _ := do(t, app, multipartRequest(t, "", "", nil))
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("disallowed extension", func(t *testing.T) {
		scanService := &fakeScanService{result: successResult()}
		app := newTestApp(scanService, &fakeStorage{}, repository.NewInMemoryScanAuditRepository())

		resp, _ := do(t, app, multipartRequest(t, "image", "label.pdf", []byte("%PDF")))
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
		if len(scanService.inputs) != 0 {
			t.Error("scan must not run for disallowed upload")
		}
	})
}

func TestRescanImage(t *testing.T) {
	scanService := &fakeScanService{result: successResult()}
	app := newTestApp(scanService, &fakeStorage{}, repository.NewInMemoryScanAuditRepository())

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/images/gpon_1.jpg/scan", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if len(scanService.inputs) != 1 || scanService.inputs[0] != "gpon_1.jpg" {
		t.Errorf("unexpected rescan input %v", scanService.inputs)
	}
}

func TestDeleteImage(t *testing.T) {
	storage := &fakeStorage{deletable: map[string]bool{"gpon_1.jpg": true}}
	app := newTestApp(&fakeScanService{}, storage, repository.NewInMemoryScanAuditRepository())

	resp, body := do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/images/gpon_1.jpg", nil))
	if resp.StatusCode != fiber.StatusOK || body["success"] != true {
		t.Errorf("expected successful delete, got %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/images/gpon_1.jpg", nil))
	if resp.StatusCode != fiber.StatusNotFound || body["success"] != false {
		t.Errorf("expected 404 on second delete, got %d %v", resp.StatusCode, body)
	}
}

func waitForAudit(t *testing.T, audits _interface.ScanAuditRepository, scanID string) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if audit, err := audits.GetScanAudit(context.Background(), scanID); err == nil && audit != nil {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
