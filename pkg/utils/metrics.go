package utils

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// 직접 등록할 수 있도록 메트릭을 promauto 대신 일반 prometheus로 선언
var (
	// RequestCounter는 총 요청 수를 추적합니다
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devscan_http_requests_total",
		Help: "총 HTTP 요청 수",
	}, []string{"method", "path", "status"})

	// ResponseTime은 응답 시간을 측정합니다
	ResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devscan_http_response_time_seconds",
		Help:    "HTTP 요청 응답 시간(초)",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path", "status"})

	// ApiCallCounter는 외부 API 호출 수를 추적합니다
	ApiCallCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devscan_api_calls_total",
		Help: "외부 API 호출 수",
	}, []string{"api", "status"})

	// ApiResponseTime은 외부 API 응답 시간을 측정합니다
	ApiResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devscan_api_response_time_seconds",
		Help:    "외부 API 응답 시간(초)",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"api"})

	// ScanProcessingTime은 스캔 전체 처리 시간을 측정합니다
	ScanProcessingTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "devscan_scan_processing_time_seconds",
		Help:    "스캔 처리 시간(초)",
		Buckets: []float64{0.1, 0.5, 1, 2, 3, 5, 7.5, 10, 15, 20, 30, 45},
	})

	// ScanFailureCounter는 실패 유형별 스캔 실패 수를 추적합니다
	ScanFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devscan_scan_failures_total",
		Help: "유형별 스캔 실패 수",
	}, []string{"kind"})

	// ErrorCounter는 오류 발생 수를 추적합니다
	ErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devscan_error_total",
		Help: "오류 발생 수",
	}, []string{"service", "type"})

	// ServerMetric은 서버 상태 지표(load, capacity, healthy)를 기록합니다
	ServerMetric = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "devscan_server_status",
		Help: "서버 상태 지표",
	}, []string{"server", "metric"})
)

var metricsOnce sync.Once

// InitMetrics는 모든 메트릭을 기본 레지스트리에 등록합니다. 여러 번 호출해도 안전합니다.
func InitMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			ResponseTime,
			ApiCallCounter,
			ApiResponseTime,
			ScanProcessingTime,
			ScanFailureCounter,
			ErrorCounter,
			ServerMetric,
		)
	})
}

// RecordRequest는 HTTP 요청 메트릭을 기록합니다
func RecordRequest(method, path string, statusCode int, duration float64) {
	status := statusLabel(statusCode)
	RequestCounter.WithLabelValues(method, path, status).Inc()
	ResponseTime.WithLabelValues(method, path, status).Observe(duration)
}

// RecordApiCall은 외부 API 호출 메트릭을 기록합니다. 응답이 없으면 statusCode는 0입니다.
func RecordApiCall(apiName string, statusCode int, duration float64) {
	status := "success"
	if statusCode < 200 || statusCode >= 400 {
		status = "error"
	}
	ApiCallCounter.WithLabelValues(apiName, status).Inc()
	ApiResponseTime.WithLabelValues(apiName).Observe(duration)
}

// RecordScanFailure는 스캔 실패를 유형별로 기록합니다
func RecordScanFailure(kind string) {
	ScanFailureCounter.WithLabelValues(kind).Inc()
}

// RecordScanProcessingTime은 스캔 처리 시간을 기록합니다
func RecordScanProcessingTime(duration float64) {
	ScanProcessingTime.Observe(duration)
}

// RecordError는 오류 발생을 기록합니다
func RecordError(service string, errorType string) {
	ErrorCounter.WithLabelValues(service, errorType).Inc()
}

// UpdateServerMetric은 서버 상태 지표를 갱신합니다
func UpdateServerMetric(server, metric string, value float64) {
	ServerMetric.WithLabelValues(server, metric).Set(value)
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
