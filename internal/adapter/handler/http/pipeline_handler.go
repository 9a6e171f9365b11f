package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
	"github.com/feiaaa1/mindstream/internal/usecase"
	apperrors "github.com/feiaaa1/mindstream/pkg/errors"
)

// StructureRequest is the body of POST /api/v1/structure
type StructureRequest struct {
	Text string `json:"text" form:"text" validate:"required,max=10000"`
}

// TranscribeResponse is returned by POST /api/v1/transcribe
type TranscribeResponse struct {
	Text string `json:"text"`
}

// PipelineHandler exposes transcription, structuring and full captures
type PipelineHandler struct {
	logger        *zap.Logger
	structuring   *usecase.StructuringService
	transcription *usecase.TranscriptionService
	pipeline      *usecase.PipelineService
}

// NewPipelineHandler creates a new pipeline handler instance
func NewPipelineHandler(
	logger *zap.Logger,
	structuring *usecase.StructuringService,
	transcription *usecase.TranscriptionService,
	pipeline *usecase.PipelineService,
) *PipelineHandler {
	return &PipelineHandler{
		logger:        logger,
		structuring:   structuring,
		transcription: transcription,
		pipeline:      pipeline,
	}
}

// RegisterRoutes registers the authenticated pipeline routes
func (h *PipelineHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/structure", h.Structure)
	g.POST("/transcribe", h.Transcribe)
	g.POST("/capture", h.Capture)
}

// Structure handles POST /api/v1/structure
func (h *PipelineHandler) Structure(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req StructureRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	payload, err := h.structuring.Structure(c.Request().Context(), uid, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payload)
}

// Transcribe handles POST /api/v1/transcribe (multipart field "audio")
func (h *PipelineHandler) Transcribe(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	audio, ok, err := readAudio(c)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.InvalidArgument("audio file is required")
	}

	text, err := h.transcription.Transcribe(c.Request().Context(), uid, audio)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TranscribeResponse{Text: text})
}

// Capture handles POST /api/v1/capture. A multipart "audio" field makes it a
// voice capture; otherwise "text" from the form or JSON body is structured.
func (h *PipelineHandler) Capture(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var in usecase.CaptureInput
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		audio, ok, err := readAudio(c)
		if err != nil {
			return err
		}
		if ok {
			in.Audio = &audio
		}
		in.Text = c.FormValue("text")
	} else {
		var req StructureRequest
		if err := c.Bind(&req); err != nil {
			return apperrors.InvalidArgument("invalid request body")
		}
		in.Text = req.Text
	}

	result, err := h.pipeline.Capture(c.Request().Context(), uid, in)
	if err != nil {
		var saveErr *domainErrors.SaveTasksError
		if errors.As(err, &saveErr) {
			// structuring succeeded; report what auto-save managed to keep
			h.logger.Error("auto-save stopped part way",
				zap.String("user_id", uid),
				zap.Int("saved", saveErr.Saved),
				zap.Error(err))
			status, body := apperrors.ErrorBody(err)
			body["result"] = result
			return c.JSON(status, body)
		}
		return err
	}
	return c.JSON(http.StatusOK, result)
}
