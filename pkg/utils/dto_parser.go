package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ParseBodyAndValidate는 요청 본문을 DTO로 변환하고 검증합니다.
// dto: 변환될 DTO 구조체 포인터
// 반환값: 에러가 있으면 fiber.Error(400), 성공 시 nil 반환
func ParseBodyAndValidate(c *fiber.Ctx, dto interface{}) error {
	if err := c.BodyParser(dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("요청 본문 파싱 실패: %v", err))
	}

	if errors := Validate(dto); errors.HasErrors() {
		Debug("validator", "유효성 검증 실패: %s", errors.Error())
		return fiber.NewError(fiber.StatusBadRequest, errors.Error())
	}

	return nil
}
