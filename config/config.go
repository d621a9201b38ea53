package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrMissingPepper dikembalikan ketika tidak ada secret untuk hash kode verifikasi.
var ErrMissingPepper = errors.New("VERIFICATION_CODE_PEPPER atau JWT_SECRET belum diatur")

// Config menampung seluruh konfigurasi aplikasi yang dibaca dari environment
type Config struct {
	Port       string
	GinMode    string
	CORSOrigin string

	DBDriver string
	DBDSN    string

	JWTSecret          string
	VerificationPepper string

	BiteshipBaseURL string
	BiteshipAPIKey  string

	RedisAddr        string
	KafkaBrokers     []string
	KafkaStatusTopic string

	MidtransServerKey  string
	MidtransProduction bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	ChangePollInterval time.Duration
}

// Load membaca konfigurasi dari environment variable. Panggil godotenv.Load sebelumnya
// jika ingin memakai file .env.
func Load() Config {
	return Config{
		Port:       getenv("PORT", "8080"),
		GinMode:    getenv("GIN_MODE", "debug"),
		CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:3000"),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBDSN:    getenv("DB_DSN", "root:@tcp(127.0.0.1:3306)/storefront?charset=utf8mb4&parseTime=True&loc=Local"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		VerificationPepper: resolvePepper(),

		BiteshipBaseURL: getenv("BITESHIP_BASE_URL", "https://api.biteship.com"),
		BiteshipAPIKey:  os.Getenv("BITESHIP_API_KEY"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		KafkaBrokers:     splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaStatusTopic: getenv("KAFKA_STATUS_TOPIC", "storefront.order-status"),

		MidtransServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransProduction: os.Getenv("MIDTRANS_ENV") == "production",

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		ChangePollInterval: getenvDuration("CHANGE_POLL_INTERVAL", 500*time.Millisecond),
	}
}

// Validate menolak konfigurasi yang tidak aman untuk dijalankan.
func (c Config) Validate() error {
	if c.VerificationPepper == "" {
		return ErrMissingPepper
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET belum diatur")
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER tidak dikenal: %q", c.DBDriver)
	}
	return nil
}

// InitDB membuka koneksi gorm sesuai DB_DRIVER
func InitDB(c Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.DBDriver {
	case "postgres":
		dialector = postgres.Open(c.DBDSN)
	default:
		dialector = mysql.Open(c.DBDSN)
	}

	gormCfg := &gorm.Config{}
	if c.GinMode == "release" {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func resolvePepper() string {
	if v := os.Getenv("VERIFICATION_CODE_PEPPER"); v != "" {
		return v
	}
	return os.Getenv("JWT_SECRET")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
