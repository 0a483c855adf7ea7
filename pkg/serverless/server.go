package serverless

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sh5080/devscan-go/pkg/utils"
)

// 종료 신호 이후 진행 중인 요청을 기다리는 시간 (인식 서비스 타임아웃보다 길게)
const shutdownTimeout = 35 * time.Second

// Listen은 앱을 지정된 포트로 실행하고 SIGINT/SIGTERM을 받으면 정상 종료합니다
func Listen(app *fiber.App, port string) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		utils.Info("server", "종료 신호 수신 (%s), 서버를 종료합니다", sig)
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}
