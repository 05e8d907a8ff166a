package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/yourusername/acme-invoices/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string
	LogLevel      slog.Level
	ItemsPerPage  int
	ViewCacheSize int

	SeedUserName     string
	SeedUserEmail    string
	SeedUserPassword string
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionCookie:    getEnvOrDefault("SESSION_COOKIE", "session"),
		SeedUserName:     getEnvOrDefault("SEED_USER_NAME", "User"),
		SeedUserEmail:    os.Getenv("SEED_USER_EMAIL"),
		SeedUserPassword: os.Getenv("SEED_USER_PASSWORD"),
	}

	var err error
	if cfg.SessionTTL, err = getDurationOrDefault("SESSION_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ItemsPerPage, err = getPositiveIntOrDefault("ITEMS_PER_PAGE", 6); err != nil {
		return nil, err
	}
	if cfg.ViewCacheSize, err = getPositiveIntOrDefault("VIEW_CACHE_SIZE", 128); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Customer{}, &models.Invoice{}, &models.Revenue{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedUser creates the bootstrap account when SEED_USER_EMAIL and
// SEED_USER_PASSWORD are set. An existing account is left untouched.
func SeedUser(db *gorm.DB, cfg *Config) (bool, error) {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPassword == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.SeedUserEmail).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up seed user: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := models.User{
		ID:       uuid.NewString(),
		Name:     cfg.SeedUserName,
		Email:    cfg.SeedUserEmail,
		Password: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("failed to create seed user: %w", err)
	}
	return true, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}

func getPositiveIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: invalid positive integer %q", key, value)
	}
	return n, nil
}
