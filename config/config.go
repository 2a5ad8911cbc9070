package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Auth         Auth
	Proctor      Proctor
	Redis        Redis
	GeminiApiKey string
	LogLevel     string
}

type Server struct {
	Port         string
	GinMode      string
	StaticDir    string
	StaticPrefix string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite file
}

type Auth struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

type Proctor struct {
	VisionModel           string
	PhoneDetectionDefault bool
	HeartbeatStaleAfter   time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("STATIC_DIR", "./static")
	viper.SetDefault("STATIC_PREFIX", "/static")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "proctoring.db")
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("GEMINI_VISION_MODEL", "gemini-1.5-flash")
	viper.SetDefault("PHONE_DETECTION_DEFAULT", true)
	viper.SetDefault("HEARTBEAT_STALE_AFTER", "30s")
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.StaticDir = viper.GetString("STATIC_DIR")
	config.Server.StaticPrefix = viper.GetString("STATIC_PREFIX")

	config.Database.Driver = viper.GetString("DATABASE_DRIVER")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.Path = viper.GetString("DATABASE_PATH")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTL = viper.GetDuration("JWT_TTL")
	config.Auth.AdminUsername = viper.GetString("ADMIN_USERNAME")
	config.Auth.AdminPassword = viper.GetString("ADMIN_PASSWORD")

	config.Proctor.VisionModel = viper.GetString("GEMINI_VISION_MODEL")
	config.Proctor.PhoneDetectionDefault = viper.GetBool("PHONE_DETECTION_DEFAULT")
	config.Proctor.HeartbeatStaleAfter = viper.GetDuration("HEARTBEAT_STALE_AFTER")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.LogLevel = viper.GetString("LOG_LEVEL")

	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Using an insecure development secret.")
		config.Auth.JWTSecret = "dev-secret-change-me"
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("dbDriver", config.Database.Driver).
		Str("dbHost", config.Database.Host).
		Str("staticDir", config.Server.StaticDir).
		Bool("geminiConfigured", config.GeminiApiKey != "").
		Bool("redisConfigured", config.Redis.Addr != "").
		Msg("Config loaded")
	return &config, nil
}
