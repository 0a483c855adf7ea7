package main

import (
	"context"

	"github.com/sh5080/devscan-go/pkg/configs"
	"github.com/sh5080/devscan-go/pkg/serverless"
	service "github.com/sh5080/devscan-go/pkg/services"
	"github.com/sh5080/devscan-go/pkg/utils"
)

func main() {
	utils.InitMetrics()

	cfg := configs.GetConfig()

	services, err := service.NewServiceContainer(context.Background(), cfg)
	if err != nil {
		utils.Fatal("lambda", "서비스 초기화 실패: %v", err)
	}

	// 콜드 스타트 시 한 번만 앱을 생성하여 이후 요청에서 재사용
	serverless.LambdaMain(serverless.NewApp(cfg, services, true))
}
