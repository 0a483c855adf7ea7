package controller

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sh5080/devscan-go/pkg/configs"
	responseDto "github.com/sh5080/devscan-go/pkg/types/dtos/responses"
	"github.com/sh5080/devscan-go/pkg/utils"
)

var GoVersion = runtime.Version()
var startTime = time.Now()

func Health() fiber.Handler {
	return func(c *fiber.Ctx) error {
		load := utils.GetServerLoad()

		status := "ok"
		if !load.IsHealthy {
			status = "degraded"
		}

		response := responseDto.HealthResponse{
			Status:    status,
			Time:      time.Now(),
			Version:   configs.AppVersion,
			Uptime:    time.Since(startTime).String(),
			GoVersion: GoVersion,
			System:    load,
		}
		return c.JSON(response)
	}
}

// Metrics는 프로메테우스 메트릭을 제공하는 핸들러입니다
func Metrics() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
