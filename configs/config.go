package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	ClientOrigin string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string

	JWTSecret string

	SMTPHost     string
	SMTPPort     string
	SMTPEmail    string
	SMTPPassword string

	CompilerURL     string
	CompilerAPIKey  string
	CompilerAPIHost string

	AIEndpoint string
	AIAPIKey   string

	UploadDir       string
	NumberOfWorkers int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	numWorkers, _ := strconv.Atoi(os.Getenv("NUM_OF_WORKERS"))
	if numWorkers <= 0 {
		numWorkers = 2
	}

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "10000"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "*"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "465"),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		CompilerURL:     getEnv("COMPILER_URL", "https://onecompiler-apis.p.rapidapi.com/api/v1/run"),
		CompilerAPIKey:  os.Getenv("RAPIDAPI_KEY"),
		CompilerAPIHost: getEnv("COMPILER_API_HOST", "onecompiler-apis.p.rapidapi.com"),

		AIEndpoint: getEnv("AI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"),
		AIAPIKey:   os.Getenv("AI_API_KEY"),

		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		NumberOfWorkers: numWorkers,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
