package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xpanvictor/portfolio/internal/domains/profile"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	// Streaming responses outlive any sane write timeout; zero disables it.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// Honour X-Forwarded-For / X-Real-Ip when deriving client identity.
	TrustForwardedHeaders bool `mapstructure:"trust_forwarded_headers"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

func (d DBConfig) DSN() string {
	if d.Driver == "postgres" {
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.Username, d.Password, d.Name, sslMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
	DB   int    `mapstructure:"db"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	URLs  []string `mapstructure:"urls"`
	Model string   `mapstructure:"model"`
}

type LLMConfig struct {
	// openai | gemini | ollama
	Provider    string       `mapstructure:"provider"`
	MaxTokens   int          `mapstructure:"max_tokens"`
	Temperature float64      `mapstructure:"temperature"`
	HistorySize int          `mapstructure:"history_size"`
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	Gemini      GeminiConfig `mapstructure:"gemini"`
	Ollama      OllamaConfig `mapstructure:"ollama"`
}

type ChatConfig struct {
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	MaxIdentities   int           `mapstructure:"max_identities"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	SessionQuota    int           `mapstructure:"session_quota"`
	QuotaMessage    string        `mapstructure:"quota_message"`
	RecorderQueue   int           `mapstructure:"recorder_queue"`
	RecorderTimeout time.Duration `mapstructure:"recorder_timeout"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

type GitHubConfig struct {
	Username string        `mapstructure:"username"`
	Token    string        `mapstructure:"token"`
	BaseURL  string        `mapstructure:"base_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type MailConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	ServiceID  string  `mapstructure:"service_id"`
	TemplateID string  `mapstructure:"template_id"`
	PublicKey  string  `mapstructure:"public_key"`
	PrivateKey string  `mapstructure:"private_key"`
	RatePerSec float64 `mapstructure:"rate_per_sec"`
	Burst      int     `mapstructure:"burst"`
}

type GeoIPConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type Settings struct {
	Server  ServerConfig    `mapstructure:"server"`
	DB      DBConfig        `mapstructure:"database"`
	Redis   RedisConfig     `mapstructure:"redis"`
	LLM     LLMConfig       `mapstructure:"llm"`
	Chat    ChatConfig      `mapstructure:"chat"`
	Auth    AuthConfig      `mapstructure:"auth"`
	GitHub  GitHubConfig    `mapstructure:"github"`
	Mail    MailConfig      `mapstructure:"mail"`
	GeoIP   GeoIPConfig     `mapstructure:"geoip"`
	Profile profile.Profile `mapstructure:"profile"`
	Env     string          `mapstructure:"env"`
	Debug   bool            `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.trust_forwarded_headers", true)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_tokens", 500)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.history_size", 10)
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("llm.ollama.model", "llama3.1:8b-instruct")
	v.SetDefault("chat.rate_limit", 20)
	v.SetDefault("chat.rate_window", time.Minute)
	v.SetDefault("chat.max_identities", 10000)
	v.SetDefault("chat.sweep_interval", time.Minute)
	v.SetDefault("chat.session_quota", 10)
	v.SetDefault("chat.quota_message", "You've reached the question limit for this chat. Feel free to reach out through the contact form for anything else!")
	v.SetDefault("chat.recorder_queue", 256)
	v.SetDefault("chat.recorder_timeout", 5*time.Second)
	v.SetDefault("auth.token_ttl_hours", 24)
	v.SetDefault("auth.admin_name", "Admin")
	v.SetDefault("github.username", "Legolasan")
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.cache_ttl", time.Hour)
	v.SetDefault("mail.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("mail.rate_per_sec", 1.0)
	v.SetDefault("mail.burst", 3)

	// Unmarshal only sees env overrides for keys viper already knows about.
	for _, key := range []string{
		"database.host", "database.username", "database.password", "database.name",
		"redis.addr", "redis.pass",
		"llm.openai.api_key", "llm.openai.base_url", "llm.gemini.api_key",
		"auth.jwt_secret", "auth.admin_email", "auth.admin_password",
		"github.token",
		"mail.service_id", "mail.template_id", "mail.public_key", "mail.private_key",
		"geoip.database_path",
	} {
		if !v.IsSet(key) {
			v.SetDefault(key, "")
		}
	}
}

// Load reads config_<ENV>.yaml from the working directory. Environment
// variables prefixed with FOLIO_ override file values (FOLIO_LLM_OPENAI_API_KEY).
func Load() (*Settings, error) {
	return LoadFrom(".", genEnv())
}

func LoadFrom(dir, env string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config_" + env)
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if settings.Env == "" {
		settings.Env = env
	}

	return &settings, nil
}

func genEnv() string {
	_ = viper.BindEnv("ENV")
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
