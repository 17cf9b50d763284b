package util

import (
	"CookingSecret/internal/api/dto"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateDTO 按 validate 标签校验，返回 validator.ValidationErrors
func ValidateDTO(dto any) error {
	return validate.Struct(dto)
}

// ValidateSteps 步骤编号必须从 1 开始连续递增
func ValidateSteps(steps []dto.StepDTO) bool {
	for i, s := range steps {
		if s.StepNumber != i+1 {
			return false
		}
	}
	return true
}
