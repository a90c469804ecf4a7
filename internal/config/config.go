package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr           string
	BaseURL        string
	GinMode        string
	DBDriver       string
	DatabaseDSN    string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOSecure    bool
	MinIOBucket    string
	MinIOPublicURL string
	RedisURL       string
	ResyncInterval time.Duration
	UploadMaxBytes int64
	SessionTTL     time.Duration
	GateTimeout    time.Duration
	LogLevel       string
	LogFormat      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("MYSQL_DSN", "portfolio:portfolio@tcp(127.0.0.1:3306)/portfolio?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("MINIO_ENDPOINT", "127.0.0.1:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_SECURE", false)
	v.SetDefault("MINIO_BUCKET", "portfolio-images")
	v.SetDefault("MINIO_PUBLIC_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RESYNC_INTERVAL", "5m")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("GATE_TIMEOUT", "3s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads configuration from the environment and, when configFile is not
// empty, from that file. Environment variables win over file values.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	dsn := v.GetString("DATABASE_DSN")
	if dsn == "" {
		dsn = v.GetString("MYSQL_DSN")
	}

	cfg := Config{
		Addr:           v.GetString("ADDR"),
		BaseURL:        strings.TrimRight(v.GetString("BASE_URL"), "/"),
		GinMode:        v.GetString("GIN_MODE"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:    dsn,
		MinIOEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinIOAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinIOSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinIOSecure:    v.GetBool("MINIO_SECURE"),
		MinIOBucket:    v.GetString("MINIO_BUCKET"),
		MinIOPublicURL: v.GetString("MINIO_PUBLIC_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		ResyncInterval: v.GetDuration("RESYNC_INTERVAL"),
		UploadMaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		GateTimeout:    v.GetDuration("GATE_TIMEOUT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}
	if cfg.MinIOPublicURL == "" {
		scheme := "http"
		if cfg.MinIOSecure {
			scheme = "https"
		}
		cfg.MinIOPublicURL = scheme + "://" + cfg.MinIOEndpoint
	}
	if cfg.UploadMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return cfg, nil
}
