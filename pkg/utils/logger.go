package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// 로그 레벨 정의
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// 로그 레벨을 문자열로 변환
func (l LogLevel) String() string {
	return [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}[l]
}

var isDebugMode bool
var debugOnce sync.Once

// 스캔 오류 로그 파일 위치 (테스트에서 변경 가능)
var ScanErrorLogDir = "logs"

var (
	outMu     sync.Mutex
	stdoutLog io.Writer = os.Stdout
	stderrLog io.Writer = os.Stderr
)

// IsDebug는 현재 애플리케이션이 디버그 모드로 실행 중인지 확인합니다
func IsDebug() bool {
	debugOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		isDebugMode = env == "dev" || env == "local"
	})
	return isDebugMode
}

// SetLogOutput은 로그 출력 대상을 변경합니다. nil이면 기존 대상을 유지합니다.
func SetLogOutput(stdout, stderr io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if stdout != nil {
		stdoutLog = stdout
	}
	if stderr != nil {
		stderrLog = stderr
	}
}

func logMessage(skip int, level LogLevel, service string, format string, args ...interface{}) {
	if level == DEBUG && !IsDebug() {
		return
	}

	// 호출 위치 정보
	_, file, line, _ := runtime.Caller(skip)
	file = filepath.Base(file)

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] %s [%s] %s:%d - %s",
		timestamp, level.String(), service, file, line, message)

	outMu.Lock()
	defer outMu.Unlock()

	// 에러 레벨 이상은 표준 에러로 출력하고 메트릭에 기록
	if level >= ERROR {
		fmt.Fprintln(stderrLog, logLine)
		RecordError(service, level.String())
		return
	}
	fmt.Fprintln(stdoutLog, logLine)
}

// ScanErrorLog는 스캔 실패를 파일에 기록합니다
func ScanErrorLog(kind string, imageRef string, detail string) {
	timestamp := time.Now().Format(time.RFC3339)
	entry := fmt.Sprintf("SCAN_ERROR|%s|%s|%s|%s", timestamp, imageRef, kind, detail)

	if err := os.MkdirAll(ScanErrorLogDir, 0755); err != nil {
		Error("system", "스캔 로그 디렉토리 생성 실패: %v", err)
		return
	}

	f, err := os.OpenFile(filepath.Join(ScanErrorLogDir, "scan_errors.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Error("system", "스캔 로그 파일 열기 실패: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(entry + "\n"); err != nil {
		Error("system", "스캔 로그 쓰기 실패: %v", err)
	}
}

// 편의성 함수들
func Debug(service, format string, args ...interface{}) {
	logMessage(2, DEBUG, service, format, args...)
}

func Info(service, format string, args ...interface{}) {
	logMessage(2, INFO, service, format, args...)
}

func Warn(service, format string, args ...interface{}) {
	logMessage(2, WARN, service, format, args...)
}

func Error(service, format string, args ...interface{}) {
	logMessage(2, ERROR, service, format, args...)
}

func Fatal(service, format string, args ...interface{}) {
	logMessage(2, FATAL, service, format, args...)
	os.Exit(1)
}
