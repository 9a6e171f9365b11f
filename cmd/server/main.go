package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	httpHandler "github.com/feiaaa1/mindstream/internal/adapter/handler/http"
	"github.com/feiaaa1/mindstream/internal/catalog"
	"github.com/feiaaa1/mindstream/internal/config"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
	"github.com/feiaaa1/mindstream/internal/domain/service"
	"github.com/feiaaa1/mindstream/internal/infrastructure/audit"
	"github.com/feiaaa1/mindstream/internal/infrastructure/cache"
	"github.com/feiaaa1/mindstream/internal/infrastructure/crypto"
	"github.com/feiaaa1/mindstream/internal/infrastructure/database"
	grpcServer "github.com/feiaaa1/mindstream/internal/infrastructure/grpc"
	httpServer "github.com/feiaaa1/mindstream/internal/infrastructure/http"
	"github.com/feiaaa1/mindstream/internal/infrastructure/llm"
	"github.com/feiaaa1/mindstream/internal/infrastructure/speech"
	"github.com/feiaaa1/mindstream/internal/infrastructure/storage"
	"github.com/feiaaa1/mindstream/internal/middleware/auth"
	"github.com/feiaaa1/mindstream/internal/usecase"
	"github.com/feiaaa1/mindstream/pkg/messaging"
)

func main() {
	// 1. 설정 로드
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("설정 로드 실패: %v", err))
	}

	// 2. 로거 가져오기
	log := cfg.Logger
	defer func() { _ = log.Sync() }()
	log.Info("mindstream 서비스 시작",
		zap.String("version", cfg.Service.Version),
		zap.String("environment", cfg.Service.Environment))

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret 설정이 필요합니다")
	}

	ctx := context.Background()

	// 3. 제공자 카탈로그 로드
	registry, err := catalog.Default()
	if err != nil {
		log.Fatal("제공자 카탈로그 로드 실패", zap.Error(err))
	}
	log.Info("제공자 카탈로그 로드 완료", zap.Int("providers", len(registry.ListProviders())))

	// 4. 데이터베이스 연결
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("데이터베이스 연결 실패", zap.Error(err))
	}
	defer func() { _ = database.Close(db, log) }()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			log.Fatal("데이터베이스 마이그레이션 실패", zap.Error(err))
		}
	}

	repos := database.NewRepositories(db, log)

	// 5. Redis (설정 캐시, 이벤트 발행) - 선택
	var settingsRepo repository.SettingsRepository = repos.Settings
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Redis.Enabled {
		redisClient, err := messaging.Dial(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Redis 연결 실패", zap.Error(err))
		}
		defer redisClient.Close()

		settingsRepo = cache.NewSettingsCache(repos.Settings, redisClient, cfg.Redis.SettingsTTL, log)
		publisher = messaging.NewRedisClient(redisClient)
		log.Info("Redis 연결 완료", zap.String("addr", cfg.Redis.Addr))
	}

	// 6. API 키 암호화 - 캐시 바깥에서 감싸 Redis와 DB 모두 암호문만 보관
	if cfg.Security.EncryptionKey != "" {
		keyCipher, err := crypto.NewKeyCipher(cfg.Security.EncryptionKey)
		if err != nil {
			log.Fatal("API 키 암호화 설정 실패", zap.Error(err))
		}
		settingsRepo = crypto.NewSealedSettings(settingsRepo, keyCipher)
	} else {
		log.Warn("security.encryption_key 미설정: API 키가 평문으로 저장됩니다")
	}

	// 7. MongoDB (AI 호출 로그) - 선택
	var callLog repository.CallLogRepository = audit.NopCallLog{}
	if cfg.Mongo.Enabled {
		mongoClient, err := audit.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			log.Fatal("MongoDB 연결 실패", zap.Error(err))
		}
		defer disconnectMongo(mongoClient, log)

		callLog = audit.NewAsyncCallLog(audit.NewMongoCallLog(audit.Collection(mongoClient, cfg.Mongo)), log)
	}

	// 8. S3 (음성 원본 보관) - 선택
	var archive repository.AudioArchive = storage.NopArchive{}
	if cfg.S3.Enabled {
		s3Client, err := storage.NewS3Client(ctx, cfg.S3, log)
		if err != nil {
			log.Fatal("S3 클라이언트 생성 실패", zap.Error(err))
		}
		archive = storage.NewS3Archive(s3Client, cfg.S3.Bucket, cfg.S3.Prefix)
	}

	// 9. 유스케이스 초기화
	settingsService := usecase.NewSettingsService(settingsRepo, registry, log)
	credentialService := usecase.NewCredentialService(settingsService, registry, log)
	structuringService := usecase.NewStructuringService(settingsService, llm.NewFactory(cfg.AI, log), callLog, log)
	transcriptionService := usecase.NewTranscriptionService(
		settingsService,
		speech.NewFactory(cfg.AI, log),
		callLog,
		cfg.AI.SpeechLanguage,
		log,
	)
	taskService := usecase.NewTaskService(repos.Task, service.NewTaskMaterializer(), publisher, cfg.Redis.EventChannel, log)
	pipelineService := usecase.NewPipelineService(transcriptionService, structuringService, taskService, settingsService, archive, log)

	// 10. HTTP 핸들러 초기화
	router := &httpHandler.Router{
		Providers: httpHandler.NewProviderHandler(registry),
		Pipeline:  httpHandler.NewPipelineHandler(log, structuringService, transcriptionService, pipelineService),
		Settings:  httpHandler.NewSettingsHandler(settingsService, credentialService),
		Tasks:     httpHandler.NewTaskHandler(log, taskService),
		Auth: auth.JWTMiddleware(auth.JWTConfig{
			Secret:   cfg.JWT.Secret,
			Audience: cfg.JWT.Audience,
			Logger:   log,
		}),
	}

	// 11. 서버 포트 설정
	httpPort := parseInt(cfg.Server.HTTP.Port, 8080)
	grpcPort := parseInt(cfg.Server.GRPC.Port, 9090)

	// 12. HTTP 서버 초기화 및 시작
	httpSrv := httpServer.NewServer(
		httpServer.WithPort(httpPort),
		httpServer.WithLogger(log),
		httpServer.WithTimeout(time.Duration(cfg.Server.HTTP.Timeout)*time.Second),
		httpServer.WithAllowOrigins(splitOrigins(cfg.Service.ClientURL)...),
	)
	httpSrv.RegisterRoutes(router.RegisterRoutes)

	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("HTTP 서버 에러", zap.Error(err))
		}
	}()

	// 13. gRPC 헬스 서버 시작 (선택)
	var grpcSrv *grpcServer.Server
	if cfg.Server.GRPC.Enabled {
		grpcSrv = grpcServer.NewServer(
			grpcServer.WithPort(grpcPort),
			grpcServer.WithLogger(log),
			grpcServer.WithServiceName(cfg.Service.Name),
			grpcServer.WithReflection(cfg.Service.Environment != "production"),
		)
		go func() {
			if err := grpcSrv.Start(); err != nil {
				log.Error("gRPC 서버 에러", zap.Error(err))
			}
		}()
	}

	log.Info("서버 실행 중...",
		zap.Int("http_port", httpPort),
		zap.Int("grpc_port", grpcPort),
		zap.Bool("grpc_enabled", cfg.Server.GRPC.Enabled),
	)

	// 14. 종료 시그널 처리
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("서버 종료 중...")

	// 15. 종료 타임아웃 설정
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 16. gRPC 헬스 상태를 먼저 내리고 서버 종료
	if grpcSrv != nil {
		if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("gRPC 서버 종료 실패", zap.Error(err))
		}
	}

	// 17. HTTP 서버 종료
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP 서버 종료 실패", zap.Error(err))
	}

	log.Info("서버 정상 종료")
}

// parseInt는 문자열을 정수로 변환하고, 변환 실패 시 기본값을 반환합니다.
func parseInt(s string, defaultVal int) int {
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	return val
}

// splitOrigins는 쉼표로 구분된 CORS 오리진 목록을 나눕니다.
func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// disconnectMongo는 MongoDB 연결을 종료합니다.
func disconnectMongo(client *mongo.Client, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error("MongoDB 연결 종료 실패", zap.Error(err))
	}
}
