package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	client "github.com/sh5080/devscan-go/pkg/clients"
	"github.com/sh5080/devscan-go/pkg/configs"
	service "github.com/sh5080/devscan-go/pkg/services"
	model "github.com/sh5080/devscan-go/pkg/types/models"
	"github.com/sh5080/devscan-go/pkg/utils"
)

const cliScanPrefix = "cli"

var (
	// 명령행 인자
	recognitionURL string
	scanTimeout    time.Duration
	saveDir        string

	// 색상 출력
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

func main() {
	// Ctrl+C 시 진행 중인 인식 요청을 취소
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		colorRed.Fprintf(os.Stderr, "오류: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scanctl",
	Short: "장비 라벨 스캔 도구",
	Long: `장비 라벨 이미지를 인식 서비스로 보내 장비 정보를 확인하는 도구입니다.

예시:
  # 라벨 이미지 스캔
  scanctl scan label.jpg --url http://localhost:5000/scan

  # 경계 처리와 저장 없이 원본 그대로 인식 서비스 호출
  scanctl raw label.jpg --url http://localhost:5000/scan

  # 이미지 경계 처리 결과만 저장
  scanctl bound label.png label_bounded.jpg`,
	Version:       configs.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "이미지를 스캔하고 장비 정보를 출력합니다",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var rawCmd = &cobra.Command{
	Use:   "raw <image>",
	Short: "경계 처리와 저장 없이 원본 이미지를 인식 서비스로 보냅니다",
	Args:  cobra.ExactArgs(1),
	RunE:  runRaw,
}

var boundCmd = &cobra.Command{
	Use:   "bound <input> <output>",
	Short: "이미지를 경계 상자에 맞게 축소하고 JPEG로 저장합니다",
	Args:  cobra.ExactArgs(2),
	RunE:  runBound,
}

func init() {
	scanCmd.Flags().StringVar(&recognitionURL, "url", "", "인식 서비스 URL (기본값: RECOGNITION_SERVICE_URL)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "인식 서비스 타임아웃 (기본값: RECOGNITION_TIMEOUT)")
	scanCmd.Flags().StringVar(&saveDir, "save-dir", "", "경계 처리된 이미지 저장 디렉토리 (기본값: 임시 디렉토리)")

	rawCmd.Flags().StringVar(&recognitionURL, "url", "", "인식 서비스 URL (기본값: RECOGNITION_SERVICE_URL)")
	rawCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "인식 서비스 타임아웃 (기본값: RECOGNITION_TIMEOUT)")

	rootCmd.AddCommand(scanCmd, rawCmd, boundCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	if recognitionURL != "" {
		cfg.Recognition.URL = recognitionURL
	}
	if scanTimeout > 0 {
		cfg.Recognition.Timeout = scanTimeout
	}
	if saveDir == "" {
		tempDir, err := os.MkdirTemp("", "scanctl-")
		if err != nil {
			return fmt.Errorf("임시 디렉토리 생성 실패: %w", err)
		}
		defer os.RemoveAll(tempDir)
		saveDir = tempDir
	}
	cfg.Storage.Dir = saveDir

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("이미지 읽기 실패: %w", err)
	}

	services, err := service.NewServiceContainer(context.Background(), cfg)
	if err != nil {
		return err
	}

	colorCyan.Printf("📁 이미지: %s (%d 바이트)\n", args[0], len(data))
	colorCyan.Printf("🔗 인식 서비스: %s\n", cfg.Recognition.URL)

	result := services.ScanService.ScanBytes(cmd.Context(), data, cliScanPrefix)
	if result.Failure != nil {
		colorRed.Printf("❌ 스캔 실패 [%s]: %s\n", result.Failure.Kind, result.Failure.Message)
		return fmt.Errorf("스캔 실패: %s", result.Failure.Kind)
	}

	printResult(result)
	return nil
}

func runRaw(cmd *cobra.Command, args []string) error {
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	if recognitionURL != "" {
		cfg.Recognition.URL = recognitionURL
	}
	if scanTimeout > 0 {
		cfg.Recognition.Timeout = scanTimeout
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("이미지 읽기 실패: %w", err)
	}

	colorCyan.Printf("📁 이미지: %s (%d 바이트, 경계 처리 없음)\n", args[0], len(data))
	colorCyan.Printf("🔗 인식 서비스: %s\n", cfg.Recognition.URL)

	recognitionClient := client.NewRecognitionClient(cfg.Recognition.URL, cfg.Recognition.Timeout, cfg.Recognition.MaxImageBytes)
	recognition, err := recognitionClient.ScanBytes(cmd.Context(), data)
	if err != nil {
		colorRed.Printf("❌ 인식 실패: %v\n", err)
		return err
	}

	printResult(&model.ScanResult{
		Detections: recognition.Detections,
		TextLines:  recognition.TextLines,
		Identity:   recognition.DeviceInfo,
	})
	return nil
}

func runBound(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("이미지 읽기 실패: %w", err)
	}

	bounded, dims, err := utils.BoundImage(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[1], bounded, 0644); err != nil {
		return fmt.Errorf("이미지 저장 실패: %w", err)
	}

	colorGreen.Printf("✅ %s -> %s (%dx%d, %d -> %d 바이트)\n",
		args[0], args[1], dims.Width, dims.Height, len(data), len(bounded))
	return nil
}

func printResult(result *model.ScanResult) {
	if result.Fallback {
		colorYellow.Println("⚠️  바코드 대신 대체 경로로 추출한 결과입니다")
	} else {
		colorGreen.Println("✅ 스캔 완료")
	}

	for _, detection := range result.Detections {
		fmt.Printf("  바코드 %-10s %-8s %s\n", detection.Label, detection.Format, detection.Data)
	}
	for _, line := range result.TextLines {
		fmt.Printf("  텍스트 %s\n", line)
	}

	identity := result.Identity
	fields := []struct {
		name  string
		value *string
	}{
		{"productionSerialNumber", identity.ProductionSerialNumber},
		{"gponSerialNumber", identity.GponSerialNumber},
		{"gponSerialNumberHex", identity.GponSerialNumberHex},
		{"wanMac", identity.WanMac},
		{"voipMac", identity.VoipMac},
		{"model", identity.Model},
		{"manufacturer", identity.Manufacturer},
		{"partNumber", identity.PartNumber},
		{"manufactureDate", identity.ManufactureDate},
	}

	fmt.Println()
	for _, field := range fields {
		if field.value == nil {
			fmt.Printf("  %-24s -\n", field.name)
			continue
		}
		colorGreen.Printf("  %-24s %s\n", field.name, *field.value)
	}
}
