package config

import "time"

// AI 외부 AI 제공자 호출 설정
type AI struct {
	// 제공자 호출 한 번에 대한 네트워크 타임아웃 (재시도 없음)
	Timeout time.Duration `yaml:"timeout"`
	// 텍스트 생성 파라미터
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	// 음성 인식 언어 (whisper language 파라미터)
	SpeechLanguage string `yaml:"speech_language"`
	// anthropic-version 헤더 값
	AnthropicVersion string `yaml:"anthropic_version"`
	// 브라우저 음성 인식을 대신할 로컬 인식 서버 (비어 있으면 비활성)
	LocalRecognizerURL string `yaml:"local_recognizer_url"`
	// 제공자별 엔드포인트 (프록시나 테스트 환경에서 덮어쓰기)
	Endpoints Endpoints `yaml:"endpoints"`
}

type Endpoints struct {
	OpenAI    string `yaml:"openai"`
	Whisper   string `yaml:"whisper"`
	DeepSeek  string `yaml:"deepseek"`
	Zhipu     string `yaml:"zhipu"`
	Moonshot  string `yaml:"moonshot"`
	Gemini    string `yaml:"gemini"`
	Anthropic string `yaml:"anthropic"`
	Ollama    string `yaml:"ollama"`
}

// 기본 엔드포인트
const (
	DefaultOpenAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	DefaultWhisperEndpoint   = "https://api.openai.com/v1/audio/transcriptions"
	DefaultDeepSeekEndpoint  = "https://api.deepseek.com/v1/chat/completions"
	DefaultZhipuEndpoint     = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	DefaultMoonshotEndpoint  = "https://api.moonshot.cn/v1/chat/completions"
	DefaultGeminiEndpoint    = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	DefaultOllamaEndpoint    = "http://localhost:11434"
)

// WithDefaults 비어 있는 엔드포인트를 기본값으로 채웁니다.
func (e Endpoints) WithDefaults() Endpoints {
	e.OpenAI = orDefault(e.OpenAI, DefaultOpenAIEndpoint)
	e.Whisper = orDefault(e.Whisper, DefaultWhisperEndpoint)
	e.DeepSeek = orDefault(e.DeepSeek, DefaultDeepSeekEndpoint)
	e.Zhipu = orDefault(e.Zhipu, DefaultZhipuEndpoint)
	e.Moonshot = orDefault(e.Moonshot, DefaultMoonshotEndpoint)
	e.Gemini = orDefault(e.Gemini, DefaultGeminiEndpoint)
	e.Anthropic = orDefault(e.Anthropic, DefaultAnthropicEndpoint)
	e.Ollama = orDefault(e.Ollama, DefaultOllamaEndpoint)
	return e
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
