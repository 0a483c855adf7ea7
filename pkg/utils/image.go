package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // GIF 포맷 지원
	"image/jpeg"
	_ "image/png" // PNG 포맷 지원
	"math"

	_ "golang.org/x/image/bmp" // BMP 포맷 지원
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF 포맷 지원
	_ "golang.org/x/image/webp" // WebP 포맷 지원

	constants "github.com/sh5080/devscan-go/pkg/types"
)

// ImageDimensions는 이미지의 가로/세로 크기 정보를 담고 있습니다
type ImageDimensions struct {
	Width  int
	Height int
}

// BoundDimensions는 최대 경계 상자에 맞게 축소된 크기를 계산합니다.
// 가로가 더 긴 이미지는 너비 기준, 세로이거나 정사각형이면 높이 기준으로 축소하며 확대하지 않습니다.
func BoundDimensions(width, height int) ImageDimensions {
	if width > height {
		if width > constants.MAX_IMAGE_WIDTH {
			height = int(math.Round(float64(height) * (float64(constants.MAX_IMAGE_WIDTH) / float64(width))))
			width = constants.MAX_IMAGE_WIDTH
		}
	} else {
		if height > constants.MAX_IMAGE_HEIGHT {
			width = int(math.Round(float64(width) * (float64(constants.MAX_IMAGE_HEIGHT) / float64(height))))
			height = constants.MAX_IMAGE_HEIGHT
		}
	}
	return ImageDimensions{Width: width, Height: height}
}

// GetImageDimensions는 이미지 데이터의 가로/세로 크기를 헤더만 읽어 반환합니다
func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("이미지 헤더 디코딩 실패: %w", err)
	}
	return &ImageDimensions{Width: config.Width, Height: config.Height}, nil
}

// BoundImage는 이미지를 경계 상자에 맞게 축소하고 JPEG(품질 70)로 다시 인코딩합니다.
// 이미 경계 안에 있는 이미지도 전송 크기를 줄이기 위해 다시 인코딩합니다.
// 헤더의 픽셀 수가 MAX_IMAGE_PIXELS를 넘으면 디코딩하지 않습니다.
func BoundImage(data []byte) ([]byte, *ImageDimensions, error) {
	header, err := GetImageDimensions(data)
	if err != nil {
		return nil, nil, err
	}
	if int64(header.Width)*int64(header.Height) > constants.MAX_IMAGE_PIXELS {
		return nil, nil, fmt.Errorf("이미지 픽셀 수가 너무 많습니다: %dx%d (최대 %d 픽셀)",
			header.Width, header.Height, constants.MAX_IMAGE_PIXELS)
	}

	source, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("이미지 디코딩 실패: %w", err)
	}

	bounds := source.Bounds()
	target := BoundDimensions(bounds.Dx(), bounds.Dy())
	if target.Width < 1 || target.Height < 1 {
		return nil, nil, fmt.Errorf("유효하지 않은 이미지 크기: %dx%d", bounds.Dx(), bounds.Dy())
	}

	var output image.Image = source
	if target.Width != bounds.Dx() || target.Height != bounds.Dy() {
		resized := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
		draw.CatmullRom.Scale(resized, resized.Bounds(), source, bounds, draw.Src, nil)
		output = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, output, &jpeg.Options{Quality: constants.JPEG_QUALITY}); err != nil {
		return nil, nil, fmt.Errorf("이미지 인코딩 실패: %w", err)
	}

	Debug("image", "이미지 경계 처리: %s %dx%d -> %dx%d (%d -> %d 바이트)",
		format, bounds.Dx(), bounds.Dy(), target.Width, target.Height, len(data), buf.Len())

	return buf.Bytes(), &target, nil
}
