package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ErrorBody는 API 에러 응답 본문을 생성합니다
func ErrorBody(err error) (int, echo.Map) {
	code, ok := CodeOf(err)
	if !ok {
		var echoErr *echo.HTTPError
		if As(err, &echoErr) {
			code = httpStatusToCode(echoErr.Code)
			return echoErr.Code, echo.Map{"error": echoErr.Message, "code": code}
		}
		return http.StatusInternalServerError, echo.Map{
			"error": http.StatusText(http.StatusInternalServerError),
			"code":  ErrInternal,
		}
	}
	return ToHTTPStatus(code), echo.Map{"error": err.Error(), "code": code}
}

// httpStatusToCode는 HTTP 상태 코드를 내부 에러 코드로 변환합니다
func httpStatusToCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrInternal
	}
}
