package config

type Server struct {
	// HTTP 서버 설정
	HTTP struct {
		Port    string `yaml:"port"`
		Timeout int    `yaml:"timeout"`
		Debug   bool   `yaml:"debug"`
	} `yaml:"http"`

	// gRPC 서버 설정
	GRPC struct {
		Port    string `yaml:"port"`
		Timeout int    `yaml:"timeout"`
		Enabled bool   `yaml:"enabled"`
	} `yaml:"grpc"`
}

type Service struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	ClientURL   string `yaml:"client_url"`
}

type JWT struct {
	// Supabase 프로젝트의 JWT secret (HS256)
	Secret string `yaml:"secret"`
	// 비어 있지 않으면 aud 클레임에 포함되어야 합니다 (Supabase는 "authenticated")
	Audience string `yaml:"audience"`
}

type Security struct {
	// API 키 암호화용 마스터 키 (64자 hex). 비어 있으면 평문 저장
	EncryptionKey string `yaml:"encryption_key"`
}

type Log struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}
