package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// ValidationErrors는 필드별 유효성 검사 오류를 저장합니다
type ValidationErrors map[string]string

// Add는 ValidationErrors에 새 오류를 추가합니다
func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// HasErrors는 ValidationErrors에 오류가 있는지 확인합니다
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Error는 ValidationErrors를 필드 이름 순으로 정렬된 문자열로 반환합니다
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}

	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errors := make([]string, 0, len(fields))
	for _, field := range fields {
		errors = append(errors, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return strings.Join(errors, ", ")
}

// Validate는 validate 태그를 기준으로 구조체를 검사합니다
// 지원되는 태그:
// - required: 필드가 비어있으면 안됨
// - max=n: 문자열 최대 길이
// - prefix=p: 문자열이 p로 시작해야 함
// - regexp=pattern: 문자열이 정규식 패턴과 일치해야 함
func Validate(data interface{}) ValidationErrors {
	errors := make(ValidationErrors)

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		errors.Add("_error", "유효성 검사는 구조체만 가능합니다")
		return errors
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		typeField := typ.Field(i)

		validateTag := typeField.Tag.Get("validate")
		if validateTag == "" {
			continue
		}

		fieldName := typeField.Name
		if jsonTag := typeField.Tag.Get("json"); jsonTag != "" {
			if name := strings.Split(jsonTag, ",")[0]; name != "" && name != "-" {
				fieldName = name
			}
		}

		for _, rule := range strings.Split(validateTag, ",") {
			if message := validateField(field, rule); message != "" {
				errors.Add(fieldName, message)
				break // 하나의 필드에 대해 첫 번째 오류만 보고
			}
		}
	}

	return errors
}

// validateField는 단일 필드에 대한 유효성 검사 규칙을 적용합니다
func validateField(field reflect.Value, rule string) string {
	name, param, _ := strings.Cut(rule, "=")

	switch name {
	case "required":
		if field.IsZero() {
			return "필수 항목입니다"
		}
	case "max":
		max := 0
		fmt.Sscanf(param, "%d", &max)
		if field.Kind() == reflect.String && len(field.String()) > max {
			return fmt.Sprintf("최대 %d자 이하여야 합니다", max)
		}
	case "prefix":
		if field.Kind() == reflect.String && field.String() != "" && !strings.HasPrefix(field.String(), param) {
			return fmt.Sprintf("%s로 시작해야 합니다", param)
		}
	case "regexp":
		if field.Kind() == reflect.String && field.String() != "" {
			re, err := regexp.Compile(param)
			if err != nil || !re.MatchString(field.String()) {
				return fmt.Sprintf("형식이 올바르지 않습니다: %s", param)
			}
		}
	}

	return ""
}
