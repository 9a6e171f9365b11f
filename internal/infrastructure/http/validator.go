package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator echo.Validator 구현체입니다. 요청 DTO의 validate 태그를 검사합니다.
type Validator struct {
	validate *validator.Validate
}

// NewValidator validator 인스턴스를 생성합니다.
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate 구조체를 검사하고 실패 시 400 에러를 반환합니다.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
