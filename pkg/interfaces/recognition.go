package _interface

import (
	"context"

	model "github.com/sh5080/devscan-go/pkg/types/models"
)

// RecognitionClient는 외부 인식 서비스에 이미지를 보내 바코드와 텍스트를 받는 인터페이스입니다.
// 실패 시에도 빈 Recognition과 *model.ScanFailure 에러를 함께 반환합니다.
type RecognitionClient interface {
	// Scan은 저장된 이미지 파일을 인식 서비스로 보냅니다
	Scan(ctx context.Context, imagePath string) (*model.Recognition, error)

	// ScanBytes는 메모리의 이미지 데이터를 인식 서비스로 보냅니다
	ScanBytes(ctx context.Context, data []byte) (*model.Recognition, error)
}

// ImageStorage는 스캔 이미지를 저장하는 외부 저장소 인터페이스입니다
type ImageStorage interface {
	// Store는 이미지를 새 파일로 저장합니다. 기존 파일을 덮어쓰지 않습니다.
	Store(data []byte, prefix string) (*model.StoredImage, error)

	// Delete는 저장된 이미지를 삭제하고 실제로 삭제되었는지 반환합니다
	Delete(filename string) bool

	// Resolve는 저장된 파일 이름의 경로를 반환합니다
	Resolve(filename string) (string, error)

	// PublicURL은 파일 이름의 공개 URL을 반환합니다
	PublicURL(filename string) string
}
