package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/middleware/auth"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// maxAudioBytes bounds a single uploaded recording.
const maxAudioBytes = 25 << 20

var errUnauthenticated = apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", nil)

// Handlers return errors instead of writing them; the server's error handler
// renders them as {"error": ..., "code": ...} with the mapped status.

func userID(c echo.Context) (string, error) {
	id, err := auth.GetUserID(c)
	if err != nil || id == "" {
		return "", errUnauthenticated
	}
	return id, nil
}

// bindAndValidate binds the request body and runs the validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// readAudio reads the "audio" multipart field. ok is false when the field is absent.
func readAudio(c echo.Context) (entity.AudioPayload, bool, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return entity.AudioPayload{}, false, nil
	}
	audio, err := readFileHeader(fh)
	if err != nil {
		return entity.AudioPayload{}, true, err
	}
	return audio, true, nil
}

func readFileHeader(fh *multipart.FileHeader) (entity.AudioPayload, error) {
	if fh.Size > maxAudioBytes {
		return entity.AudioPayload{}, apperrors.InvalidArgument(fmt.Sprintf("audio exceeds %d bytes", maxAudioBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return entity.AudioPayload{}, apperrors.InvalidArgument("cannot read audio upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAudioBytes+1))
	if err != nil {
		return entity.AudioPayload{}, apperrors.InvalidArgument("cannot read audio upload")
	}
	if len(data) > maxAudioBytes {
		return entity.AudioPayload{}, apperrors.InvalidArgument(fmt.Sprintf("audio exceeds %d bytes", maxAudioBytes))
	}

	mimeType := fh.Header.Get(echo.HeaderContentType)
	if mimeType == "" || mimeType == echo.MIMEOctetStream {
		mimeType = entity.DefaultAudioMIMEType
	}

	audio := entity.AudioPayload{Data: data, MIMEType: mimeType, FileName: fh.Filename}
	if !audio.IsAudio() {
		return entity.AudioPayload{}, apperrors.InvalidArgument(fmt.Sprintf("unsupported audio type %q", mimeType))
	}
	return audio, nil
}
