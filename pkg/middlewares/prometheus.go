package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sh5080/devscan-go/pkg/utils"
)

// 서버 상태 메트릭 갱신 주기
const serverMetricInterval = 10 * time.Second

// Prometheus 미들웨어는 HTTP 요청에 대한 메트릭을 수집합니다
func Prometheus(serverName string) fiber.Handler {
	var (
		mu               sync.Mutex
		lastMetricUpdate time.Time
	)

	return func(c *fiber.Ctx) error {
		// 요청 시작 시간
		start := time.Now()

		// 다음 핸들러 실행
		err := c.Next()

		// 에러 핸들러가 아직 실행되지 않았으므로 fiber.Error의 코드를 상태로 사용
		status := c.Response().StatusCode()
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		}

		utils.RecordRequest(c.Method(), c.Route().Path, status, time.Since(start).Seconds())

		// 일정 시간마다 한 번씩만 서버 상태 갱신
		mu.Lock()
		due := time.Since(lastMetricUpdate) >= serverMetricInterval
		if due {
			lastMetricUpdate = time.Now()
		}
		mu.Unlock()

		if due {
			updateServerMetrics(serverName)
		}

		return err
	}
}

// updateServerMetrics는 서버 상태 메트릭을 Prometheus에 업데이트합니다
func updateServerMetrics(serverName string) {
	load := utils.GetServerLoad()

	healthValue := 0.0
	if load.IsHealthy {
		healthValue = 1.0
	}

	utils.UpdateServerMetric(serverName, "load", load.Load)
	utils.UpdateServerMetric(serverName, "healthy", healthValue)
	utils.UpdateServerMetric(serverName, "capacity", load.Capacity)
}
