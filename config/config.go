package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string
	Port            string
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	DBMaxOpenConns  int
	JWTSecret       string
	JWTTTL          time.Duration
	LogLevel        string
	ShutdownTimeout time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

// LoadConfig membaca .env (jika ada) lalu environment variable. Hasilnya di-cache.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = fromEnv()
	})
	return cfg
}

func fromEnv() *Config {
	return &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          getEnv("DB_HOST", "127.0.0.1"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBName:          os.Getenv("DB_NAME"),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 20),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          time.Duration(getEnvInt("JWT_TTL_HOURS", 12)) * time.Hour,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
