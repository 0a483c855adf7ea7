package configs

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// 앱 버전을 저장하는 전역 변수
var AppVersion string

type EnvConfig struct {
	Server struct {
		Port        string `env:"PORT" envDefault:"8080"`
		AppName     string `env:"APP_NAME" envDefault:"devscan"`
		BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"20"`
	}
	Recognition struct {
		URL           string        `env:"RECOGNITION_SERVICE_URL" envDefault:"http://localhost:5000/scan"`
		Timeout       time.Duration `env:"RECOGNITION_TIMEOUT" envDefault:"30s"`
		MaxImageBytes int64         `env:"RECOGNITION_MAX_IMAGE_BYTES" envDefault:"10485760"`
	}
	Storage struct {
		Dir          string `env:"STORAGE_DIR" envDefault:"./public/uploads/scanned"`
		PublicPrefix string `env:"STORAGE_PUBLIC_PREFIX" envDefault:"/uploads/scanned"`
	}
	AWS struct {
		AccessKeyID      string `env:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey  string `env:"AWS_SECRET_ACCESS_KEY"`
		Region           string `env:"AWS_REGION" envDefault:"ap-northeast-2"`
		DynamoDBEndpoint string `env:"AWS_DYNAMODB_ENDPOINT"`
		Tables           struct {
			ScanAudit string `env:"AWS_DYNAMODB_TABLE_SCAN_AUDIT"`
		}
	}
}

var (
	configInstance *EnvConfig
	once           sync.Once
)

// init 함수에서 VERSION 환경 변수 로드
func init() {
	AppVersion = os.Getenv("VERSION")
	if AppVersion == "" {
		AppVersion = "dev"
	}

	// 개발 환경일 경우 항상 "dev"로 설정
	if os.Getenv("APP_ENV") == "dev" {
		AppVersion = "dev"
	}
}

// Load는 .env 파일과 환경 변수를 읽어 설정을 생성합니다.
// .env 파일이 없으면 환경 변수와 기본값만 사용합니다.
func Load() (*EnvConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf(".env 로드 실패: %w", err)
		}
	}

	config := &EnvConfig{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("환경 변수 파싱 실패: %w", err)
	}

	if config.Recognition.URL == "" {
		return nil, fmt.Errorf("RECOGNITION_SERVICE_URL이 비어 있습니다")
	}
	if config.Recognition.Timeout <= 0 {
		return nil, fmt.Errorf("RECOGNITION_TIMEOUT은 0보다 커야 합니다: %s", config.Recognition.Timeout)
	}
	if config.Recognition.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("RECOGNITION_MAX_IMAGE_BYTES는 0보다 커야 합니다: %d", config.Recognition.MaxImageBytes)
	}

	return config, nil
}

// GetConfig는 EnvConfig의 싱글톤 인스턴스를 반환합니다.
// 처음 호출 시에만 환경 변수를 로드하고 이후 호출에서는 캐시된 인스턴스를 반환합니다.
func GetConfig() *EnvConfig {
	once.Do(func() {
		config, err := Load()
		if err != nil {
			log.Fatalf("설정 로드 실패: %v", err)
		}
		configInstance = config
		fmt.Printf("환경 변수 로드 완료 (앱 버전: %s)\n", AppVersion)
	})
	return configInstance
}
