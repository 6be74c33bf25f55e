package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string  `yaml:"log-level"   env:"LOG_LEVEL"   env-default:"info"`
	HTTPPort   string  `yaml:"http-port"   env:"HTTP_PORT"   env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	LLM        LLM     `yaml:"llm"`
	Session    Session `yaml:"session"`
	Redis      Redis   `yaml:"redis"`
}

// LLM holds the chat-completion endpoint and the sampling parameters sent with every move request.
type LLM struct {
	URL              string        `yaml:"url"               env:"LLM_URL"     env-default:"https://api.siliconflow.cn/v1/chat/completions"`
	APIKey           string        `yaml:"api-key"           env:"LLM_API_KEY"`
	Model            string        `yaml:"model"             env:"LLM_MODEL"   env-default:"Qwen/Qwen3-8B"`
	MaxTokens        int           `yaml:"max-tokens"        env-default:"8192"`
	DisableThinking  bool          `yaml:"disable-thinking"`
	ThinkingBudget   int           `yaml:"thinking-budget"   env-default:"2048"`
	MinP             float64       `yaml:"min-p"             env-default:"0.05"`
	Temperature      float64       `yaml:"temperature"       env-default:"0.9"`
	TopP             float64       `yaml:"top-p"             env-default:"0.9"`
	TopK             int           `yaml:"top-k"             env-default:"50"`
	FrequencyPenalty float64       `yaml:"frequency-penalty" env-default:"0.5"`
	Timeout          time.Duration `yaml:"timeout"           env-default:"5m"`

	FallbackOnTransportError bool `yaml:"fallback-on-transport-error" env-default:"false"`
}

type Session struct {
	CancelGrace time.Duration `yaml:"cancel-grace" env-default:"500ms"`
	EventBuffer int           `yaml:"event-buffer" env-default:"16"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host"    env:"REDIS_HOST"    env-default:"localhost"`
	Port    string        `yaml:"port"    env:"REDIS_PORT"    env-default:"6379"`
	TTL     time.Duration `yaml:"ttl"     env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Default - configuration built from defaults and environment only.
func Default() (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
