package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	App       App
	Postgres  Postgres
	Redis     Redis
	JWT       JWT
	QR        QR
	Payment   Payment
	SMTP      SMTP
	Scheduler Scheduler
	Admin     Admin
}

type App struct {
	Port        string `env:"PORT" env-default:"7001"`
	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:3001"`
	CorsOrigins string `env:"CORS_ORIGINS" env-default:"http://localhost:3001"`
	// Offset of the operating timezone from UTC, in hours. Schedule dates are
	// calendar days in this zone.
	TZOffsetHours int `env:"APP_TZ_OFFSET_HOURS" env-default:"7"`
}

type Postgres struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:"postgres"`
	DBName   string `env:"DB_NAME" env-default:"bus_ticketing"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type JWT struct {
	Secret string `env:"JWT_SECRET" env-default:"change-me"`
}

type QR struct {
	ExpiryHours int `env:"QR_CODE_EXPIRY_HOURS" env-default:"24"`
	ImageSize   int `env:"QR_CODE_IMAGE_SIZE" env-default:"300"`
}

type Payment struct {
	APIKey         string `env:"PHAPAY_API_KEY"`
	LinkURL        string `env:"PHAPAY_LINK_URL" env-default:"https://payment-gateway.phajay.co/v1/api/link/payment-link"`
	Tag1           string `env:"PHAPAY_TAG1" env-default:"BusGoGo"`
	TimeoutSeconds int    `env:"PHAPAY_TIMEOUT_SECONDS" env-default:"15"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

type Scheduler struct {
	ExpirySweepSpec string `env:"EXPIRY_SWEEP_CRON" env-default:"*/5 * * * *"`
}

type Admin struct {
	Username string `env:"ADMIN_USERNAME" env-default:"admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

func (a App) Location() *time.Location {
	return time.FixedZone("LOCAL", a.TZOffsetHours*3600)
}

func (q QR) ExpiryWindow() time.Duration {
	if q.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(q.ExpiryHours) * time.Hour
}

func (p Payment) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}
