package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	HTTP  ServerConfig
	MySQL MySQLConfig
	Log   LogConfig
	Quota QuotaConfig
	VNPay VNPayConfig
	Jobs  JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type QuotaConfig struct {
	// DailyFreeLimit seeds JobPostingUsage.FreeLimit when the first post of
	// the day creates the row.
	DailyFreeLimit int32
}

type VNPayConfig struct {
	TmnCode      string
	HashSecret   string
	PayURL       string
	ReturnURL    string
	ExpireWindow time.Duration
}

type JobsConfig struct {
	ExpirationCheckInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	vnpaySecret := os.Getenv("VNPAY_HASH_SECRET")
	if vnpaySecret == "" {
		return nil, errors.New("VNPAY_HASH_SECRET environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "employer-subscriptions-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		Quota: QuotaConfig{
			DailyFreeLimit: int32(getIntEnv("QUOTA_DAILY_FREE_LIMIT", 1)),
		},
		VNPay: VNPayConfig{
			TmnCode:      getEnv("VNPAY_TMN_CODE", ""),
			HashSecret:   vnpaySecret,
			PayURL:       getEnv("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:    getEnv("VNPAY_RETURN_URL", ""),
			ExpireWindow: getDurationEnv("VNPAY_EXPIRE_WINDOW_MINUTES", 15*time.Minute),
		},
		Jobs: JobsConfig{
			ExpirationCheckInterval: getDurationEnv("EXPIRATION_CHECK_INTERVAL_MINUTES", time.Hour),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
