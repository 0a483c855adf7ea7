package normalizer

import (
	"regexp"
	"strings"

	model "github.com/sh5080/devscan-go/pkg/types/models"
	structure "github.com/sh5080/devscan-go/pkg/types/structures"
	"github.com/sh5080/devscan-go/pkg/utils"
)

// 레거시 텍스트 라인 형식 "<Type>: <Value>"
var textLinePattern = regexp.MustCompile(`^([^:]+):\s*(.+)$`)

func ptr(value string) *string {
	return &value
}

// macSlot은 n번째 MAC 주소가 들어갈 필드를 반환합니다 (0: WAN, 1: VoIP, 그 외 nil)
func macSlot(identity *model.DeviceIdentity, occurrence int) **string {
	switch occurrence {
	case 0:
		return &identity.WanMac
	case 1:
		return &identity.VoipMac
	}
	return nil
}

// FromDetections는 바코드 인식 결과를 장비 정보로 변환합니다.
// 목록을 앞에서부터 한 번만 순회하며 순서가 결과에 영향을 줍니다.
//   - S/N: productionSerialNumber (마지막 값 우선)
//   - GPON S/N: 첫 번째는 gponSerialNumber, 두 번째는 gponSerialNumberHex, 이후 무시
//   - MAC: 첫 번째는 wanMac, 두 번째는 voipMac, 이후 무시
func FromDetections(detections []model.BarcodeDetection) model.DeviceIdentity {
	var identity model.DeviceIdentity
	macOccurrences := 0

	for _, detection := range detections {
		if detection.Data == "" {
			continue
		}

		switch detection.Kind {
		case model.BarcodeSerialNumber:
			identity.ProductionSerialNumber = ptr(detection.Data)
		case model.BarcodeGponSerialNumber:
			if identity.GponSerialNumber == nil {
				identity.GponSerialNumber = ptr(detection.Data)
			} else if identity.GponSerialNumberHex == nil {
				identity.GponSerialNumberHex = ptr(detection.Data)
			}
		case model.BarcodeMacAddress:
			if slot := macSlot(&identity, macOccurrences); slot != nil {
				*slot = ptr(detection.Data)
			}
			macOccurrences++
		default:
			utils.Debug("normalizer", "알 수 없는 바코드 타입 무시: %q (%s)", detection.Label, detection.Format)
		}
	}

	return identity
}

// FromTextLines는 레거시 텍스트 라인 결과를 장비 정보로 변환합니다.
// 모델, 제조사, 부품 번호, 제조일은 채우지 않습니다.
//
// Deprecated: 인식 서비스가 바코드를 반환하지 않을 때의 대체 경로로만 사용됩니다.
func FromTextLines(lines []string) model.DeviceIdentity {
	var identity model.DeviceIdentity
	macOccurrences := 0

	for _, line := range lines {
		// 라벨은 공백을 다듬지 않고 그대로 비교합니다
		match := textLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		label := match[1]
		value := strings.TrimSpace(match[2])
		if value == "" {
			continue
		}

		switch model.BarcodeKindFromLabel(label) {
		case model.BarcodeSerialNumber:
			identity.ProductionSerialNumber = ptr(value)
		case model.BarcodeGponSerialNumber:
			identity.GponSerialNumber = ptr(value)
		case model.BarcodeMacAddress:
			if slot := macSlot(&identity, macOccurrences); slot != nil {
				*slot = ptr(value)
			}
			macOccurrences++
		}
	}

	return identity
}

// FromDeviceInfo는 필드 이름만 맞춰 장비 정보로 변환합니다. 빈 문자열은 설정하지 않습니다.
func FromDeviceInfo(info structure.RawDeviceInfo) model.DeviceIdentity {
	var identity model.DeviceIdentity

	set := func(target **string, values ...string) {
		for _, value := range values {
			if value != "" {
				*target = ptr(value)
				return
			}
		}
	}

	set(&identity.ProductionSerialNumber, info.SerialNumber, info.ProductionSN)
	set(&identity.GponSerialNumber, info.GponSN)
	set(&identity.GponSerialNumberHex, info.GponSNHex)
	set(&identity.WanMac, info.WanMAC)
	set(&identity.VoipMac, info.VoipMAC)
	set(&identity.Model, info.Model)
	set(&identity.Manufacturer, info.Manufacturer)
	set(&identity.PartNumber, info.PartNo)
	set(&identity.ManufactureDate, info.Date)

	return identity
}
