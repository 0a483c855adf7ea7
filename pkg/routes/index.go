package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sh5080/devscan-go/pkg/configs"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
)

// SetupRoutes는 애플리케이션의 모든 라우트를 설정합니다
func SetupRoutes(app *fiber.App, cfg *configs.EnvConfig, services *_interface.ServiceContainer) {
	// 저장된 스캔 이미지 정적 제공
	app.Static(cfg.Storage.PublicPrefix, cfg.Storage.Dir)

	// API 라우트 그룹
	api := app.Group("/api/v1")

	// 도메인별 라우트 설정
	SetupScanRoutes(api, services)
	SetupAppRoutes(app)
}
