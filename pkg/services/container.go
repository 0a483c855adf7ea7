package service

import (
	"context"
	"fmt"

	client "github.com/sh5080/devscan-go/pkg/clients"
	"github.com/sh5080/devscan-go/pkg/configs"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	repository "github.com/sh5080/devscan-go/pkg/repositories"
	"github.com/sh5080/devscan-go/pkg/services/internal/scanner"
	"github.com/sh5080/devscan-go/pkg/services/internal/storage"
)

// NewServiceContainer는 새로운 서비스 컨테이너를 생성합니다
func NewServiceContainer(ctx context.Context, cfg *configs.EnvConfig) (*_interface.ServiceContainer, error) {
	imageStorage, err := storage.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.PublicPrefix)
	if err != nil {
		return nil, fmt.Errorf("이미지 저장소 초기화 실패: %w", err)
	}

	recognitionClient := client.NewRecognitionClient(
		cfg.Recognition.URL,
		cfg.Recognition.Timeout,
		cfg.Recognition.MaxImageBytes,
	)
	scanService := scanner.NewScanService(recognitionClient, imageStorage, cfg.Recognition.MaxImageBytes)

	auditRepository, err := repository.NewScanAuditRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("스캔 감사 저장소 초기화 실패: %w", err)
	}

	return &_interface.ServiceContainer{
		ScanService:     scanService,
		Storage:         imageStorage,
		AuditRepository: auditRepository,
	}, nil
}
