package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	model "github.com/sh5080/devscan-go/pkg/types/models"
	structure "github.com/sh5080/devscan-go/pkg/types/structures"
)

const testMaxBytes = 10 * 1024 * 1024

func writeImage(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "label.jpg")
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func failureKind(t *testing.T, err error) model.FailureKind {
	t.Helper()
	var failure *model.ScanFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *model.ScanFailure, got %v", err)
	}
	return failure.Kind
}

func assertEmpty(t *testing.T, recognition *model.Recognition) {
	t.Helper()
	if recognition == nil {
		t.Fatal("recognition must never be nil")
	}
	if recognition.Detections == nil || len(recognition.Detections) != 0 {
		t.Errorf("expected empty detections, got %v", recognition.Detections)
	}
	if recognition.TextLines == nil || len(recognition.TextLines) != 0 {
		t.Errorf("expected empty text lines, got %v", recognition.TextLines)
	}
	if !recognition.DeviceInfo.IsEmpty() {
		t.Errorf("expected empty device info, got %+v", recognition.DeviceInfo)
	}
}

func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"barcodes":[],"text_lines":[]}`))
}

func TestScan_NotFoundWithoutNetworkCall(t *testing.T) {
	server, hits := countingServer(t, okHandler)
	client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)

	recognition, err := client.Scan(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	if kind := failureKind(t, err); kind != model.FailureNotFound {
		t.Errorf("expected NotFound, got %s", kind)
	}
	assertEmpty(t, recognition)
	if atomic.LoadInt32(hits) != 0 {
		t.Errorf("expected no network call, got %d", *hits)
	}
}

func TestScan_SizeLimit(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		tooLarge bool
	}{
		{"exactly at limit", testMaxBytes, false},
		{"one byte over limit", testMaxBytes + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := countingServer(t, okHandler)
			client := NewRecognitionClient(server.URL, 5*time.Second, testMaxBytes)

			_, err := client.Scan(context.Background(), writeImage(t, tt.size))
			if tt.tooLarge {
				if kind := failureKind(t, err); kind != model.FailureTooLarge {
					t.Errorf("expected TooLarge, got %s", kind)
				}
				if atomic.LoadInt32(hits) != 0 {
					t.Errorf("expected no network call for oversized image")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected success at the limit, got %v", err)
			}
			if atomic.LoadInt32(hits) != 1 {
				t.Errorf("expected exactly one call, got %d", *hits)
			}
		})
	}
}

func TestScanBytes(t *testing.T) {
	t.Run("too large before any call", func(t *testing.T) {
		server, hits := countingServer(t, okHandler)
		client := NewRecognitionClient(server.URL, time.Second, 4)

		recognition, err := client.ScanBytes(context.Background(), []byte("12345"))
		if kind := failureKind(t, err); kind != model.FailureTooLarge {
			t.Errorf("expected TooLarge, got %s", kind)
		}
		assertEmpty(t, recognition)
		if atomic.LoadInt32(hits) != 0 {
			t.Errorf("expected no call, got %d", *hits)
		}
	})

	t.Run("sends bytes as is", func(t *testing.T) {
		var received structure.RecognitionRequest
		server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&received)
			w.Write([]byte(`{"barcodes":[{"type":"MAC","data":"AA:BB"}]}`))
		})
		client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)

		recognition, err := client.ScanBytes(context.Background(), []byte("raw"))
		if err != nil {
			t.Fatalf("ScanBytes() error = %v", err)
		}
		if received.Image != base64.StdEncoding.EncodeToString([]byte("raw")) {
			t.Errorf("unexpected request image %q", received.Image)
		}
		if len(recognition.Detections) != 1 || recognition.Detections[0].Kind != model.BarcodeMacAddress {
			t.Errorf("unexpected detections %+v", recognition.Detections)
		}
	})
}

func TestScan_ConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	client := NewRecognitionClient("http://"+addr+"/scan", time.Second, testMaxBytes)
	recognition, err := client.Scan(context.Background(), writeImage(t, 16))
	if kind := failureKind(t, err); kind != model.FailureServiceUnreachable {
		t.Errorf("expected ServiceUnreachable, got %s", kind)
	}
	assertEmpty(t, recognition)
}

func TestScan_ServiceError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"error field", `{"error":"decoder crashed"}`, "decoder crashed"},
		{"message field", `{"message":"bad image"}`, "bad image"},
		{"no text", `oops`, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
				io.Copy(io.Discard, r.Body)
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			})
			client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)

			recognition, err := client.Scan(context.Background(), writeImage(t, 16))
			var failure *model.ScanFailure
			if !errors.As(err, &failure) {
				t.Fatalf("expected ScanFailure, got %v", err)
			}
			if failure.Kind != model.FailureServiceError {
				t.Errorf("expected ServiceError, got %s", failure.Kind)
			}
			if failure.StatusCode != http.StatusBadGateway {
				t.Errorf("expected status 502, got %d", failure.StatusCode)
			}
			if !strings.Contains(failure.Message, tt.expected) {
				t.Errorf("expected message to contain %q, got %q", tt.expected, failure.Message)
			}
			assertEmpty(t, recognition)
		})
	}
}

func TestScan_EmptyResponse(t *testing.T) {
	for _, body := range []string{"", "   ", "null"} {
		server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(body))
		})
		client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)

		recognition, err := client.Scan(context.Background(), writeImage(t, 16))
		if kind := failureKind(t, err); kind != model.FailureEmptyResponse {
			t.Errorf("body %q: expected EmptyResponse, got %s", body, kind)
		}
		assertEmpty(t, recognition)
	}
}

func TestScan_MalformedJSON(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"barcodes": [`))
	})
	client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)

	_, err := client.Scan(context.Background(), writeImage(t, 16))
	if kind := failureKind(t, err); kind != model.FailureServiceError {
		t.Errorf("expected ServiceError, got %s", kind)
	}
}

func TestScan_Timeout(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client := NewRecognitionClient(server.URL, 50*time.Millisecond, testMaxBytes)

	recognition, err := client.Scan(context.Background(), writeImage(t, 16))
	if kind := failureKind(t, err); kind != model.FailureTimeout {
		t.Errorf("expected Timeout, got %s", kind)
	}
	assertEmpty(t, recognition)
}

func TestScan_ContextCanceled(t *testing.T) {
	server, _ := countingServer(t, okHandler)
	client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Scan(ctx, writeImage(t, 16))
	if kind := failureKind(t, err); kind != model.FailureTimeout {
		t.Errorf("expected Timeout for canceled request, got %s", kind)
	}
}

func TestScan_Success(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	var received structure.RecognitionRequest

	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(`{
			"barcodes": [
				{"type": "S/N", "data": "SN001", "format": "CODE128"},
				{"type": "GPON S/N", "data": "GPON001"},
				{"type": "MAC", "data": "AA:BB"},
				{"type": "QR", "data": "https://example.com"},
				{"type": "", "data": "skipped"},
				{"type": "MAC", "data": ""}
			],
			"text_lines": ["S/N: SN001"],
			"device_info": {"serialNumber": "SN-INFO", "model": "H660", "manufacturer": "Acme"}
		}`))
	})

	path := filepath.Join(t.TempDir(), "label.jpg")
	if err := os.WriteFile(path, image, 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)
	recognition, err := client.Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if received.Image != base64.StdEncoding.EncodeToString(image) {
		t.Errorf("request image was not plain base64: %q", received.Image)
	}

	expectedKinds := []model.BarcodeKind{
		model.BarcodeSerialNumber,
		model.BarcodeGponSerialNumber,
		model.BarcodeMacAddress,
		model.BarcodeUnknown,
	}
	if len(recognition.Detections) != len(expectedKinds) {
		t.Fatalf("expected %d detections, got %+v", len(expectedKinds), recognition.Detections)
	}
	for i, kind := range expectedKinds {
		if recognition.Detections[i].Kind != kind {
			t.Errorf("detection %d: expected %s, got %s", i, kind, recognition.Detections[i].Kind)
		}
	}
	if recognition.Detections[0].Format != "CODE128" {
		t.Errorf("expected format to be kept, got %q", recognition.Detections[0].Format)
	}
	if recognition.Detections[3].Label != "QR" {
		t.Errorf("unknown detection should keep raw label, got %q", recognition.Detections[3].Label)
	}

	if len(recognition.TextLines) != 1 || recognition.TextLines[0] != "S/N: SN001" {
		t.Errorf("unexpected text lines %v", recognition.TextLines)
	}

	info := recognition.DeviceInfo
	if info.ProductionSerialNumber == nil || *info.ProductionSerialNumber != "SN-INFO" {
		t.Errorf("expected serialNumber folded into productionSerialNumber, got %v", info.ProductionSerialNumber)
	}
	if info.Model == nil || *info.Model != "H660" || info.Manufacturer == nil || *info.Manufacturer != "Acme" {
		t.Errorf("expected model and manufacturer passed through, got %+v", info)
	}
	if info.WanMac != nil || info.GponSerialNumber != nil {
		t.Errorf("device info must not set barcode fields, got %+v", info)
	}
}

func TestScan_DeviceInfoOnlySerialModelManufacturer(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{
			"barcodes": [],
			"device_info": {
				"serialNumber": "SN", "productionSN": "PSN", "gponSN": "G1", "gponSNHex": "G1HEX",
				"wanMAC": "AA:BB", "voipMAC": "CC:DD", "partNo": "P1", "date": "2024-01",
				"model": "H660", "manufacturer": "Acme"
			}
		}`))
	})

	client := NewRecognitionClient(server.URL, time.Second, testMaxBytes)
	recognition, err := client.Scan(context.Background(), writeImage(t, 16))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	info := recognition.DeviceInfo
	if info.ProductionSerialNumber == nil || *info.ProductionSerialNumber != "SN" {
		t.Errorf("expected productionSerialNumber SN, got %v", info.ProductionSerialNumber)
	}
	if info.Model == nil || info.Manufacturer == nil {
		t.Errorf("expected model and manufacturer, got %+v", info)
	}

	unset := map[string]*string{
		"gponSerialNumber":    info.GponSerialNumber,
		"gponSerialNumberHex": info.GponSerialNumberHex,
		"wanMac":              info.WanMac,
		"voipMac":             info.VoipMac,
		"partNumber":          info.PartNumber,
		"manufactureDate":     info.ManufactureDate,
	}
	for field, got := range unset {
		if got != nil {
			t.Errorf("%s must stay unset from service device info, got %q", field, *got)
		}
	}
}
