package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	SetLogOutput(&stdout, &stderr)
	t.Cleanup(func() { SetLogOutput(os.Stdout, os.Stderr) })
	return &stdout, &stderr
}

func TestLogLevels(t *testing.T) {
	stdout, stderr := captureLogs(t)

	Info("scan", "스캔 완료: %d", 3)
	Warn("scan", "경고")
	Error("scan", "실패: %s", "Timeout")

	out := stdout.String()
	if !strings.Contains(out, "INFO [scan] logger_test.go:") || !strings.Contains(out, "- 스캔 완료: 3") {
		t.Errorf("unexpected info line %q", out)
	}
	if !strings.Contains(out, "WARN [scan]") {
		t.Errorf("warn should go to stdout, got %q", out)
	}
	if strings.Contains(out, "ERROR") {
		t.Errorf("error must not go to stdout, got %q", out)
	}
	if !strings.Contains(stderr.String(), "ERROR [scan]") || !strings.Contains(stderr.String(), "실패: Timeout") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestScanErrorLog(t *testing.T) {
	original := ScanErrorLogDir
	ScanErrorLogDir = filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() { ScanErrorLogDir = original })

	ScanErrorLog("ServiceUnreachable", "gpon_1.jpg", "connection refused")
	ScanErrorLog("Timeout", "gpon_2.jpg", "deadline")

	content, err := os.ReadFile(filepath.Join(ScanErrorLogDir, "scan_errors.log"))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), content)
	}

	fields := strings.Split(lines[0], "|")
	if len(fields) != 5 || fields[0] != "SCAN_ERROR" || fields[2] != "gpon_1.jpg" || fields[3] != "ServiceUnreachable" || fields[4] != "connection refused" {
		t.Errorf("unexpected log line %q", lines[0])
	}
}
