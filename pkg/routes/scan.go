package route

import (
	"github.com/gofiber/fiber/v2"
	controller "github.com/sh5080/devscan-go/pkg/controllers"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
)

// SetupScanRoutes는 스캔 관련 라우트를 설정합니다
func SetupScanRoutes(api fiber.Router, services *_interface.ServiceContainer) {
	api.Post("/direct-scan", controller.DirectScan(services.ScanService, services.AuditRepository))
	api.Post("/upload-scan", controller.UploadScan(services.ScanService, services.AuditRepository))

	images := api.Group("/images")
	images.Get("/:filename/scan", controller.RescanImage(services.ScanService, services.AuditRepository))
	images.Delete("/:filename", controller.DeleteImage(services.Storage))
}
