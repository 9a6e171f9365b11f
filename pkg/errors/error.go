package errors

import (
	"errors"
	"fmt"
)

// 표준 라이브러리 함수 재노출
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Coder는 에러 코드를 노출하는 에러입니다.
// 도메인 에러 타입은 이 인터페이스만 구현하면 HTTP/gRPC 매핑을 공유합니다.
type Coder interface {
	error
	Code() string
}

// AppError는 기본 에러 구현체입니다
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError는 새 애플리케이션 에러를 생성합니다
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// NotFound는 NOT_FOUND 코드의 에러를 생성합니다
func NotFound(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

// InvalidArgument는 INVALID_ARGUMENT 코드의 에러를 생성합니다
func InvalidArgument(message string) *AppError {
	return NewAppError(ErrInvalidArgument, message, nil)
}

// Wrap은 기존 에러를 래핑합니다
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// 코드가 있는 에러인 경우 코드를 유지합니다
	if code, ok := CodeOf(err); ok {
		return NewAppError(code, message, err)
	}

	return NewAppError(ErrInternal, message, err)
}

// CodeOf는 에러 체인에서 첫 번째 에러 코드를 찾습니다
func CodeOf(err error) (string, bool) {
	var coder Coder
	if As(err, &coder) {
		return coder.Code(), true
	}
	return "", false
}
