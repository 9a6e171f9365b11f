package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

type codedError struct{ code string }

func (e *codedError) Error() string { return "coded: " + e.code }
func (e *codedError) Code() string  { return e.code }

func TestCodeOf(t *testing.T) {
	code, ok := apperrors.CodeOf(fmt.Errorf("outer: %w", &codedError{code: apperrors.ErrUpstream}))
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrUpstream, code)

	_, ok = apperrors.CodeOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, apperrors.Wrap(nil, "nothing"))

	wrapped := apperrors.Wrap(&codedError{code: apperrors.ErrMissingCredential}, "structure")
	code, _ := apperrors.CodeOf(wrapped)
	assert.Equal(t, apperrors.ErrMissingCredential, code)

	wrapped = apperrors.Wrap(fmt.Errorf("disk full"), "save")
	code, _ = apperrors.CodeOf(wrapped)
	assert.Equal(t, apperrors.ErrInternal, code)
	assert.Equal(t, "save: disk full", wrapped.Error())
}

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing credential", &codedError{code: apperrors.ErrMissingCredential}, http.StatusPreconditionFailed, apperrors.ErrMissingCredential},
		{"unknown provider", &codedError{code: apperrors.ErrUnknownProvider}, http.StatusBadRequest, apperrors.ErrUnknownProvider},
		{"unsupported", &codedError{code: apperrors.ErrUnsupportedCapability}, http.StatusUnprocessableEntity, apperrors.ErrUnsupportedCapability},
		{"recognition", &codedError{code: apperrors.ErrRecognitionFailed}, http.StatusUnprocessableEntity, apperrors.ErrRecognitionFailed},
		{"upstream", &codedError{code: apperrors.ErrUpstream}, http.StatusBadGateway, apperrors.ErrUpstream},
		{"malformed", &codedError{code: apperrors.ErrMalformedResponse}, http.StatusBadGateway, apperrors.ErrMalformedResponse},
		{"schema", &codedError{code: apperrors.ErrInvalidSchema}, http.StatusBadGateway, apperrors.ErrInvalidSchema},
		{"not found", apperrors.NotFound("task not found"), http.StatusNotFound, apperrors.ErrNotFound},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "no token"), http.StatusUnauthorized, apperrors.ErrUnauthenticated},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, apperrors.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := apperrors.ErrorBody(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestErrorBody_PlainErrorHidesDetails(t *testing.T) {
	_, body := apperrors.ErrorBody(fmt.Errorf("dsn=postgres://secret"))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body["error"])
}

func TestGetCodeMapping_Unknown(t *testing.T) {
	httpStatus, grpcCode := apperrors.GetCodeMapping("SOMETHING_ELSE")
	assert.Equal(t, 500, httpStatus)
	assert.Equal(t, 13, grpcCode)
}
