package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/pkg/logger"
)

// 오디오 업로드를 고려한 요청 본문 최대 크기
const defaultBodyLimit = "25M"

// Server HTTP 서버 구조체입니다.
type Server struct {
	echo         *echo.Echo
	logger       *zap.Logger
	port         int
	allowOrigins []string
	timeout      time.Duration
}

// ServerOption Server 생성을 위한 옵션 함수 타입입니다.
type ServerOption func(*Server)

// WithPort 서버 포트를 설정하는 옵션입니다.
func WithPort(port int) ServerOption {
	return func(s *Server) {
		s.port = port
	}
}

// WithLogger 로거를 설정하는 옵션입니다.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowOrigins CORS 허용 오리진을 설정하는 옵션입니다.
func WithAllowOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.allowOrigins = origins
	}
}

// WithTimeout 요청 읽기/쓰기 타임아웃을 설정하는 옵션입니다.
func WithTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// NewServer HTTP 서버를 생성합니다.
func NewServer(opts ...ServerOption) *Server {
	// 기본 서버 설정
	s := &Server{
		echo:         echo.New(),
		logger:       zap.NewNop(), // 기본은 로깅 없음
		port:         8080,         // 기본 포트
		allowOrigins: []string{"*"},
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(s)
	}

	// Echo 인스턴스 설정
	e := s.echo
	e.HideBanner = true
	e.Validator = NewValidator()
	if s.timeout > 0 {
		e.Server.ReadTimeout = s.timeout
		// 제공자 호출 시간을 포함하므로 쓰기 타임아웃은 여유 있게
		e.Server.WriteTimeout = 3 * s.timeout
	}

	// 로거 설정
	logger.WithEchoLogger(e, s.logger)

	// 미들웨어 설정
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(defaultBodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(logger.NewEchoRequestLogger(s.logger))

	// 기본 라우트 설정
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// 메트릭 엔드포인트
	e.GET("/metrics", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return s
}

// RegisterRoutes 라우트를 등록하는 메서드입니다.
// 이 메서드는 핸들러를 등록하는 함수를 받아 실행합니다.
func (s *Server) RegisterRoutes(registerFunc func(e *echo.Echo)) {
	registerFunc(s.echo)
}

// Start 서버를 시작합니다.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("HTTP 서버 시작", zap.String("addr", addr))

	return s.echo.Start(addr)
}

// Shutdown 서버를 안전하게 종료합니다.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP 서버 종료 중...")
	return s.echo.Shutdown(ctx)
}

// GetEcho 내부 Echo 인스턴스를 반환합니다.
func (s *Server) GetEcho() *echo.Echo {
	return s.echo
}
