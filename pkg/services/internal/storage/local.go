package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_interface "github.com/sh5080/devscan-go/pkg/interfaces"
	model "github.com/sh5080/devscan-go/pkg/types/models"
	"github.com/sh5080/devscan-go/pkg/utils"
)

// LocalStorage는 스캔 이미지를 로컬 디렉토리에 저장하는 구현체입니다
type LocalStorage struct {
	dir          string
	publicPrefix string
}

// NewLocalStorage는 저장 디렉토리를 만들고 새 로컬 저장소를 생성합니다
func NewLocalStorage(dir, publicPrefix string) (_interface.ImageStorage, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("저장 경로 확인 실패: %w", err)
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("저장 디렉토리 생성 실패: %w", err)
	}

	return &LocalStorage{
		dir:          absDir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

// Store는 이미지를 <prefix>_<나노초>_<uuid>.jpg 이름으로 저장합니다.
// 같은 이름의 파일이 이미 있으면 덮어쓰지 않고 실패합니다.
func (s *LocalStorage) Store(data []byte, prefix string) (*model.StoredImage, error) {
	if prefix == "" || !validName(prefix) {
		return nil, fmt.Errorf("유효하지 않은 파일 접두사: %q", prefix)
	}

	filename := fmt.Sprintf("%s_%d_%s.jpg", prefix, time.Now().UnixNano(), uuid.New().String())
	filePath := filepath.Join(s.dir, filename)

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("이미지 파일 생성 실패: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(filePath)
		return nil, fmt.Errorf("이미지 저장 실패: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("이미지 저장 실패: %w", err)
	}

	utils.Debug("storage", "이미지 저장 완료: %s (%d 바이트)", filename, len(data))

	return &model.StoredImage{
		Path:      filePath,
		PublicURL: s.PublicURL(filename),
		Filename:  filename,
	}, nil
}

// Delete는 저장된 이미지를 삭제합니다. 파일이 실제로 삭제된 경우에만 true를 반환합니다.
func (s *LocalStorage) Delete(filename string) bool {
	filePath, err := s.Resolve(filename)
	if err != nil {
		utils.Warn("storage", "이미지 삭제 거부: %v", err)
		return false
	}

	if err := os.Remove(filePath); err != nil {
		if !os.IsNotExist(err) {
			utils.Error("storage", "이미지 삭제 실패: %s - %v", filename, err)
		}
		return false
	}

	utils.Info("storage", "이미지 삭제 완료: %s", filename)
	return true
}

// Resolve는 저장된 파일 이름의 절대 경로를 반환합니다. 경로 구분자가 포함된 이름은 거부합니다.
func (s *LocalStorage) Resolve(filename string) (string, error) {
	if !validName(filename) {
		return "", fmt.Errorf("유효하지 않은 파일 이름: %q", filename)
	}
	return filepath.Join(s.dir, filename), nil
}

// PublicURL은 파일 이름의 공개 URL을 반환합니다
func (s *LocalStorage) PublicURL(filename string) string {
	return path.Join(s.publicPrefix, filename)
}

// validName은 디렉토리를 벗어날 수 없는 단일 파일 이름인지 확인합니다
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
