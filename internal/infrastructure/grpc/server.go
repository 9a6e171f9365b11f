package grpc

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/feiaaa1/mindstream/pkg/logger"
)

// Server gRPC 서버 구조체입니다. 현재는 헬스 체크와 리플렉션만 노출합니다.
type Server struct {
	grpcServer  *grpc.Server
	health      *health.Server
	logger      *zap.Logger
	port        int
	serviceName string
	reflection  bool
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

// WithServiceName 헬스 체크에 보고할 서비스 이름을 설정하는 옵션입니다.
func WithServiceName(name string) ServerOption {
	return func(s *Server) {
		s.serviceName = name
	}
}

// WithReflection 리플렉션 서비스 등록 여부를 설정하는 옵션입니다.
func WithReflection(enabled bool) ServerOption {
	return func(s *Server) {
		s.reflection = enabled
	}
}

// NewServer gRPC 서버를 생성합니다.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		logger:      zap.NewNop(),
		port:        9090,
		serviceName: "mindstream",
		reflection:  true,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.grpcServer = grpc.NewServer(
		grpc.UnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(s.logger)),
		grpc.StreamInterceptor(logger.NewGrpcStreamServerInterceptor(s.logger)),
	)

	// 헬스 체크: 전체("")와 서비스 이름 모두 SERVING으로 시작
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(true)

	if s.reflection {
		reflection.Register(s.grpcServer)
	}

	return s
}

// SetServing 헬스 상태를 변경합니다. 종료 직전 NOT_SERVING으로 내려 트래픽을 빼는 데 사용합니다.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(s.serviceName, st)
}

// Start 서버를 시작합니다.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gRPC 서버 리스닝 실패: %w", err)
	}
	return s.Serve(lis)
}

// Serve 주어진 리스너로 서버를 실행합니다.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC 서버 시작", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Shutdown 서버를 안전하게 종료합니다. 컨텍스트가 먼저 끝나면 강제 종료합니다.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC 서버 종료 중...")
	s.SetServing(false)

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("gRPC 서버 강제 종료")
		s.grpcServer.Stop()
		return ctx.Err()
	case <-stopped:
		s.logger.Info("gRPC 서버 종료 완료")
		return nil
	}
}
