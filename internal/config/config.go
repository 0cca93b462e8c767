package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
	Cookie  CookieConfig  `mapstructure:"cookie"`
	PDF     PDFConfig     `mapstructure:"pdf"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// CookieSecure 取值: always / never / auto
// auto 模式下只有信任代理头且请求来自 https 时才设置 Secure
type CookieConfig struct {
	Secure            string `mapstructure:"secure"`
	TrustProxyHeaders bool   `mapstructure:"trust_proxy_headers"`
}

type PDFConfig struct {
	QpdfBin      string        `mapstructure:"qpdf_bin"`
	GsBin        string        `mapstructure:"gs_bin"`
	ToolTimeout  time.Duration `mapstructure:"tool_timeout"`
	MaxFiles     int           `mapstructure:"max_files"`
	MaxFileBytes int64         `mapstructure:"max_file_bytes"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PDFTOOLS")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// 配置文件优先，如果配置文件中没有设置，则使用环境变量
	if cfg.Auth.Username == "" {
		cfg.Auth.Username = os.Getenv("APP_USERNAME")
	}
	if cfg.Auth.Password == "" {
		cfg.Auth.Password = os.Getenv("APP_PASSWORD")
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = os.Getenv("SESSION_SECRET")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "5m")
	viper.SetDefault("server.write_timeout", "5m")
	viper.SetDefault("server.max_header_bytes", 1<<20)
	viper.SetDefault("session.ttl", "24h")
	viper.SetDefault("session.cookie_name", "pdf_tools_session")
	viper.SetDefault("cookie.secure", "auto")
	viper.SetDefault("cookie.trust_proxy_headers", false)
	viper.SetDefault("pdf.qpdf_bin", "qpdf")
	viper.SetDefault("pdf.gs_bin", "gs")
	viper.SetDefault("pdf.tool_timeout", "60s")
	viper.SetDefault("pdf.max_files", 10)
	viper.SetDefault("pdf.max_file_bytes", 30*1024*1024)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

func (c *Config) Validate() error {
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("auth.username and auth.password must be set (or APP_USERNAME/APP_PASSWORD)")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret must be set (or SESSION_SECRET)")
	}
	switch c.Cookie.Secure {
	case "always", "never", "auto":
	default:
		return fmt.Errorf("cookie.secure must be one of always/never/auto, got %q", c.Cookie.Secure)
	}
	if c.PDF.MaxFiles <= 0 || c.PDF.MaxFileBytes <= 0 {
		return fmt.Errorf("pdf.max_files and pdf.max_file_bytes must be positive")
	}
	return nil
}

// MaxBodyBytes 整个 multipart 请求体的上限
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.PDF.MaxFiles)*c.PDF.MaxFileBytes + 5*1024*1024
}
