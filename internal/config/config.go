package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	App struct {
		PublicURL   string   `yaml:"public_url"`   // адрес фронтенда в production, используется в ссылках
		APIKey      string   `yaml:"api_key"`      // ключ для серверного эндпоинта отправки писем
		CORSOrigins []string `yaml:"cors_origins"` // "*" - любой origin
	} `yaml:"app"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`        // local, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For R2
		Region     string `yaml:"region"`      // For S3-compatible
		AccessKey  string `yaml:"access_key"`  // For R2
		SecretKey  string `yaml:"secret_key"`  // For R2
		Endpoint   string `yaml:"endpoint"`    // For R2
		UseSSL     bool   `yaml:"use_ssl"`     // For R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64 `yaml:"max_size"`      // байты
		ImageQuality int   `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто - realtime работает внутри одного процесса
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel"`
	} `yaml:"redis"`

	RateLimit struct {
		RequestsPerSecond int `yaml:"requests_per_second"`
		Burst             int `yaml:"burst"`
	} `yaml:"rate_limit"`

	Workers struct {
		OutboxSpec                 string `yaml:"outbox_spec"`
		SuspensionSpec             string `yaml:"suspension_spec"`
		CleanupSpec                string `yaml:"cleanup_spec"`
		OutboxBatch                int    `yaml:"outbox_batch"`
		OutboxMaxAttempts          int    `yaml:"outbox_max_attempts"`
		AutoLiftExpiredSuspensions bool   `yaml:"auto_lift_expired_suspensions"`
		NotificationRetentionDays  int    `yaml:"notification_retention_days"`
	} `yaml:"workers"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig читает .env (если есть), затем либо переменные окружения
// (когда задан DATABASE_URL), либо config/config.yaml.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}

	var cfg Config
	cfg.applyDefaults()

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Printf("Загрузка конфигурации из %s", configPath)

		if err := loadFile(configPath, &cfg); err != nil {
			log.Fatalf("Failed to load config file at %s: %v", configPath, err)
		}
	} else {
		log.Println("✅ Загрузка конфигурации из переменных окружения")
		cfg.loadEnv()
	}

	cfg.applyFirstAdminEnv()
	AppConfig = &cfg
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return yaml.NewDecoder(f).Decode(cfg)
}

func (cfg *Config) applyDefaults() {
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.Env = EnvDevelopment

	cfg.App.CORSOrigins = []string{"http://localhost:3000"}

	cfg.JWT.TTL = 60 * 24

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "RentEase"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/files"

	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.ImageQuality = 85

	cfg.Redis.Channel = "rentease:notifications"

	cfg.RateLimit.RequestsPerSecond = 20
	cfg.RateLimit.Burst = 40

	cfg.Workers.OutboxSpec = "@every 5s"
	cfg.Workers.SuspensionSpec = "@every 1h"
	cfg.Workers.CleanupSpec = "@daily"
	cfg.Workers.OutboxBatch = 50
	cfg.Workers.OutboxMaxAttempts = 5
	cfg.Workers.AutoLiftExpiredSuspensions = true
	cfg.Workers.NotificationRetentionDays = 90
}

func (cfg *Config) loadEnv() {
	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.App.PublicURL, "APP_PUBLIC_URL")
	setString(&cfg.App.APIKey, "APP_API_KEY")
	if v := os.Getenv("APP_CORS_ORIGINS"); v != "" {
		cfg.App.CORSOrigins = strings.Split(v, ",")
	}

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.BasePath, "STORAGE_BASE_PATH")
	setString(&cfg.Storage.BaseURL, "STORAGE_BASE_URL")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
}

func (cfg *Config) applyFirstAdminEnv() {
	setString(&cfg.FirstAdminEmail, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// IsProduction - production-окружение
func (cfg *Config) IsProduction() bool {
	return cfg.Server.Env == EnvProduction
}

// BaseURL возвращает адрес, который подставляется в ссылки писем и уведомлений:
// в production - публичный адрес, иначе localhost с портом сервера.
func (cfg *Config) BaseURL() string {
	if cfg.IsProduction() && cfg.App.PublicURL != "" {
		return cfg.App.PublicURL
	}
	return fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
