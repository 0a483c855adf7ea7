package serverless

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sh5080/devscan-go/pkg/configs"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	middleware "github.com/sh5080/devscan-go/pkg/middlewares"
	route "github.com/sh5080/devscan-go/pkg/routes"
)

// NewApp은 미들웨어와 라우트가 설정된 Fiber 앱을 생성합니다.
// 서버리스 환경에서는 시작 메시지와 Prometheus 수집을 비활성화합니다.
func NewApp(cfg *configs.EnvConfig, services *_interface.ServiceContainer, isServerless bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: isServerless,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	if !isServerless {
		app.Use(middleware.Prometheus(cfg.Server.AppName))
	}

	route.SetupRoutes(app, cfg, services)

	return app
}
