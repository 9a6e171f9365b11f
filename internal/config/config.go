package config

import (
	"time"

	"github.com/feiaaa1/mindstream/pkg/config"
	"github.com/feiaaa1/mindstream/pkg/logger"
	"go.uber.org/zap"
)

// Config mindstream 서비스 설정 구조체
type Config struct {
	Service  Service  `yaml:"service"`
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	JWT      JWT      `yaml:"jwt"`
	Security Security `yaml:"security"`
	AI       AI       `yaml:"ai"`
	Redis    Redis    `yaml:"redis"`
	Mongo    Mongo    `yaml:"mongo"`
	S3       S3       `yaml:"s3"`
	Log      Log      `yaml:"log"`
	Logger   *zap.Logger
}

var (
	// AppConfig는 어플리케이션 전체에서 사용하는 설정 인스턴스입니다.
	AppConfig *Config
)

// 설정 파일과 환경 변수에 값이 없을 때 사용하는 기본값
var defaults = map[string]interface{}{
	"service.name":        "mindstream",
	"service.version":     "0.1.0",
	"service.environment": "development",
	"service.client_url":  "*",

	"server.http.port":    "8080",
	"server.http.timeout": 30,
	"server.grpc.port":    "9090",
	"server.grpc.timeout": 10,
	"server.grpc.enabled": true,

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.sslmode":            "disable",
	"database.path":               "mindstream.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "10m",
	"database.log_level":          "warn",
	"database.auto_migrate":       true,

	"ai.timeout":             "60s",
	"ai.temperature":         0.7,
	"ai.max_tokens":          1500,
	"ai.speech_language":     "zh",
	"ai.anthropic_version":   "2023-06-01",
	"ai.endpoints.openai":    DefaultOpenAIEndpoint,
	"ai.endpoints.whisper":   DefaultWhisperEndpoint,
	"ai.endpoints.deepseek":  DefaultDeepSeekEndpoint,
	"ai.endpoints.zhipu":     DefaultZhipuEndpoint,
	"ai.endpoints.moonshot":  DefaultMoonshotEndpoint,
	"ai.endpoints.gemini":    DefaultGeminiEndpoint,
	"ai.endpoints.anthropic": DefaultAnthropicEndpoint,
	"ai.endpoints.ollama":    DefaultOllamaEndpoint,

	"redis.addr":          "localhost:6379",
	"redis.settings_ttl":  "5m",
	"redis.event_channel": "mindstream:tasks",

	"mongo.uri":        "mongodb://localhost:27017",
	"mongo.database":   "mindstream",
	"mongo.collection": "ai_call_logs",

	"s3.region": "us-east-1",
	"s3.prefix": "captures",

	"log.level":  "info",
	"log.format": "json",
	"log.output": "stdout",
}

// Load 설정 파일 로드
func Load() (*Config, error) {
	// pkg/config 패키지를 사용하여 설정 파일 로드
	cfg, err := config.Load("mindstream", defaults)
	if err != nil {
		return nil, err
	}

	appConfig := FromSource(cfg)

	// 로거 설정
	loggerConfig := logger.Config{
		Level:       appConfig.Log.Level,
		Format:      appConfig.Log.Format,
		Output:      appConfig.Log.Output,
		FilePath:    appConfig.Log.FilePath,
		Development: appConfig.Server.HTTP.Debug,
		Service:     appConfig.Service.Name,
	}

	// 로거 생성
	appConfig.Logger, err = logger.NewZapLogger(loggerConfig)
	if err != nil {
		return nil, err
	}

	// 전역 변수에 설정
	AppConfig = appConfig

	return appConfig, nil
}

// FromSource 설정 소스의 키를 구조체로 옮깁니다. 로거는 만들지 않습니다.
func FromSource(cfg config.Config) *Config {
	appConfig := &Config{}

	// 서비스 정보
	appConfig.Service.Name = cfg.GetString("service.name")
	appConfig.Service.Version = cfg.GetString("service.version")
	appConfig.Service.Environment = cfg.GetString("service.environment")
	appConfig.Service.ClientURL = cfg.GetString("service.client_url")

	// HTTP 서버 설정
	appConfig.Server.HTTP.Port = cfg.GetString("server.http.port")
	appConfig.Server.HTTP.Timeout = cfg.GetInt("server.http.timeout")
	appConfig.Server.HTTP.Debug = cfg.GetBool("server.http.debug")

	// gRPC 서버 설정
	appConfig.Server.GRPC.Port = cfg.GetString("server.grpc.port")
	appConfig.Server.GRPC.Timeout = cfg.GetInt("server.grpc.timeout")
	appConfig.Server.GRPC.Enabled = cfg.GetBool("server.grpc.enabled")

	// 데이터베이스 설정
	appConfig.Database.Driver = cfg.GetString("database.driver")
	appConfig.Database.Host = cfg.GetString("database.host")
	appConfig.Database.Port = cfg.GetInt("database.port")
	appConfig.Database.User = cfg.GetString("database.user")
	appConfig.Database.Password = cfg.GetString("database.password")
	appConfig.Database.Name = cfg.GetString("database.name")
	appConfig.Database.SSLMode = cfg.GetString("database.sslmode")
	appConfig.Database.Path = cfg.GetString("database.path")
	appConfig.Database.MaxOpenConns = cfg.GetInt("database.max_open_conns")
	appConfig.Database.MaxIdleConns = cfg.GetInt("database.max_idle_conns")
	appConfig.Database.ConnMaxLifetime = cfg.GetDuration("database.conn_max_lifetime")
	appConfig.Database.ConnMaxIdleTime = cfg.GetDuration("database.conn_max_idle_time")
	appConfig.Database.LogLevel = cfg.GetString("database.log_level")
	appConfig.Database.AutoMigrate = cfg.GetBool("database.auto_migrate")

	// JWT 설정
	appConfig.JWT.Secret = cfg.GetString("jwt.secret")
	appConfig.JWT.Audience = cfg.GetString("jwt.audience")

	// 보안 설정
	appConfig.Security.EncryptionKey = cfg.GetString("security.encryption_key")

	// AI 제공자 설정
	appConfig.AI.Timeout = durationOr(cfg.GetDuration("ai.timeout"), 60*time.Second)
	appConfig.AI.Temperature = cfg.GetFloat64("ai.temperature")
	appConfig.AI.MaxTokens = cfg.GetInt("ai.max_tokens")
	appConfig.AI.SpeechLanguage = cfg.GetString("ai.speech_language")
	appConfig.AI.AnthropicVersion = cfg.GetString("ai.anthropic_version")
	appConfig.AI.LocalRecognizerURL = cfg.GetString("ai.local_recognizer_url")
	appConfig.AI.Endpoints.OpenAI = cfg.GetString("ai.endpoints.openai")
	appConfig.AI.Endpoints.Whisper = cfg.GetString("ai.endpoints.whisper")
	appConfig.AI.Endpoints.DeepSeek = cfg.GetString("ai.endpoints.deepseek")
	appConfig.AI.Endpoints.Zhipu = cfg.GetString("ai.endpoints.zhipu")
	appConfig.AI.Endpoints.Moonshot = cfg.GetString("ai.endpoints.moonshot")
	appConfig.AI.Endpoints.Gemini = cfg.GetString("ai.endpoints.gemini")
	appConfig.AI.Endpoints.Anthropic = cfg.GetString("ai.endpoints.anthropic")
	appConfig.AI.Endpoints.Ollama = cfg.GetString("ai.endpoints.ollama")

	// Redis 설정
	appConfig.Redis.Enabled = cfg.GetBool("redis.enabled")
	appConfig.Redis.Addr = cfg.GetString("redis.addr")
	appConfig.Redis.Password = cfg.GetString("redis.password")
	appConfig.Redis.DB = cfg.GetInt("redis.db")
	appConfig.Redis.SettingsTTL = cfg.GetDuration("redis.settings_ttl")
	appConfig.Redis.EventChannel = cfg.GetString("redis.event_channel")

	// MongoDB 설정
	appConfig.Mongo.Enabled = cfg.GetBool("mongo.enabled")
	appConfig.Mongo.URI = cfg.GetString("mongo.uri")
	appConfig.Mongo.Database = cfg.GetString("mongo.database")
	appConfig.Mongo.Collection = cfg.GetString("mongo.collection")

	// S3 설정
	appConfig.S3.Enabled = cfg.GetBool("s3.enabled")
	appConfig.S3.Region = cfg.GetString("s3.region")
	appConfig.S3.Bucket = cfg.GetString("s3.bucket")
	appConfig.S3.Prefix = cfg.GetString("s3.prefix")
	appConfig.S3.Endpoint = cfg.GetString("s3.endpoint")
	appConfig.S3.AccessKeyID = cfg.GetString("s3.access_key_id")
	appConfig.S3.SecretAccessKey = cfg.GetString("s3.secret_access_key")
	appConfig.S3.UsePathStyle = cfg.GetBool("s3.use_path_style")

	// 로그 설정
	appConfig.Log.Level = cfg.GetString("log.level")
	appConfig.Log.Format = cfg.GetString("log.format")
	appConfig.Log.Output = cfg.GetString("log.output")
	appConfig.Log.FilePath = cfg.GetString("log.file_path")

	return appConfig
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
