package main

import (
	"context"

	"github.com/sh5080/devscan-go/pkg/configs"
	"github.com/sh5080/devscan-go/pkg/serverless"
	service "github.com/sh5080/devscan-go/pkg/services"
	"github.com/sh5080/devscan-go/pkg/utils"
)

func main() {
	// 메트릭 초기화
	utils.InitMetrics()

	cfg := configs.GetConfig()

	services, err := service.NewServiceContainer(context.Background(), cfg)
	if err != nil {
		utils.Fatal("server", "서비스 초기화 실패: %v", err)
	}

	app := serverless.NewApp(cfg, services, false)

	utils.Info("server", "%s 시작 (버전: %s, 포트: %s, 인식 서비스: %s)",
		cfg.Server.AppName, configs.AppVersion, cfg.Server.Port, cfg.Recognition.URL)

	if err := serverless.Listen(app, cfg.Server.Port); err != nil {
		utils.Fatal("server", "서버 실행 실패: %v", err)
	}
}
