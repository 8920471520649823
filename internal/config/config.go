package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port       int     `yaml:"port" mapstructure:"port"`
	CORSOrigin string  `yaml:"cors_origin" mapstructure:"cors_origin"`
	ChatRPS    float64 `yaml:"chat_rps" mapstructure:"chat_rps"`
	ChatBurst  int     `yaml:"chat_burst" mapstructure:"chat_burst"`
}

// DataConfig locates the profile content files.
type DataConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LLMConfig holds rewrite-provider settings and the health gate thresholds.
type LLMConfig struct {
	Provider         string `yaml:"provider" mapstructure:"provider"`
	Key              string `yaml:"key" mapstructure:"key"`
	Model            string `yaml:"model" mapstructure:"model"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	LongAnswerChars  int    `yaml:"long_answer_chars" mapstructure:"long_answer_chars"`
	FailureThreshold int    `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	CooldownSecs     int    `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
}

// EngineConfig configures pipeline behavior.
type EngineConfig struct {
	IntentThreshold float64 `yaml:"intent_threshold" mapstructure:"intent_threshold"`
	LatencyGuardMS  int     `yaml:"latency_guard_ms" mapstructure:"latency_guard_ms"`
}

// StoreConfig configures the interaction log backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origin", "http://localhost:5173")
	v.SetDefault("server.chat_rps", 5.0)
	v.SetDefault("server.chat_burst", 10)
	v.SetDefault("data.dir", "data")
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.timeout_secs", 5)
	v.SetDefault("llm.long_answer_chars", 600)
	v.SetDefault("llm.failure_threshold", 3)
	v.SetDefault("llm.cooldown_secs", 300)
	v.SetDefault("engine.intent_threshold", 0.45)
	v.SetDefault("engine.latency_guard_ms", 2500)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "portfolio.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
