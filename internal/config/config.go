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
	Track         TrackConfig         `yaml:"track" mapstructure:"track"`
	Authoritative AuthoritativeConfig `yaml:"authoritative" mapstructure:"authoritative"`
	Extraction    ExtractionConfig    `yaml:"extraction" mapstructure:"extraction"`
	Poll          PollConfig          `yaml:"poll" mapstructure:"poll"`
	Agents        AgentsConfig        `yaml:"agents" mapstructure:"agents"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// TrackConfig configures the local tracking ledger.
type TrackConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AuthoritativeConfig configures the system-of-record connection.
type AuthoritativeConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ExtractionConfig configures the document-understanding provider.
type ExtractionConfig struct {
	Provider          string `yaml:"provider" mapstructure:"provider"` // gemini | claude
	GeminiKey         string `yaml:"gemini_api_key" mapstructure:"gemini_api_key"`
	GeminiModel       string `yaml:"gemini_model" mapstructure:"gemini_model"`
	AnthropicKey      string `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	AnthropicModel    string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	PdfToTextPath     string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	TimeoutSecs       int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// PollConfig configures the polling driver.
type PollConfig struct {
	WindowDays   int    `yaml:"window_days" mapstructure:"window_days"`
	ProcessAll   bool   `yaml:"process_all" mapstructure:"process_all"`
	LocalFileDir string `yaml:"local_file_dir" mapstructure:"local_file_dir"`
	TaskPrefix   string `yaml:"task_prefix" mapstructure:"task_prefix"`
}

// AgentsConfig configures the agent roster workbook.
type AgentsConfig struct {
	WorkbookPath string `yaml:"workbook_path" mapstructure:"workbook_path"`
}

// ServerConfig configures the read-only status server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("POPMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("track.path", "pop_automation.db")
	v.SetDefault("authoritative.database_url", "")
	v.SetDefault("extraction.gemini_api_key", "")
	v.SetDefault("extraction.anthropic_api_key", "")
	v.SetDefault("extraction.provider", "gemini")
	v.SetDefault("extraction.gemini_model", "gemini-2.5-flash")
	v.SetDefault("extraction.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("extraction.pdftotext_path", "pdftotext")
	v.SetDefault("extraction.timeout_secs", 120)
	v.SetDefault("extraction.requests_per_minute", 10)
	v.SetDefault("poll.window_days", 100)
	v.SetDefault("poll.process_all", false)
	v.SetDefault("poll.local_file_dir", "pop_files")
	v.SetDefault("poll.task_prefix", "Proof of Prior")
	v.SetDefault("agents.workbook_path", "agents.xlsx")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
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
