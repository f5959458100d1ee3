package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the environment-driven settings for the server.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	UploadDir string
}

// Load reads an optional .env file and then the process environment.
// JWT_SECRET is the only setting without a usable default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "3000"),
		MongoURI:  getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:   getEnv("MONGODB_DB", "socialfeed"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		UploadDir: getEnv("UPLOAD_DIR", "public/uploads"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
