package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	APIPort  string
	Env      string
	LogLevel string
	BaseURL  string // public origin used in password-reset links

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	JWTSecret     []byte
	JWTExp        time.Duration
	RefreshSecret []byte
	RefreshExp    time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	AppName      string

	ImageStoreURL    string
	ImageStoreKey    string
	ImageStoreFolder string

	PublicDir     string
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional, real deployments rely on the environment.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("API_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("BASE_URL", "http://localhost:4200")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "melodia")
	viper.SetDefault("DB_PASSWORD", "melodia")
	viper.SetDefault("DB_NAME", "melodia_db")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("JWT_SECRET", "defaultsecret")
	viper.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	viper.SetDefault("REFRESH_TOKEN_SECRET", "defaultrefreshsecret")
	viper.SetDefault("REFRESH_EXPIRATION_HOURS", 168)
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("APP_NAME", "Melodia")
	viper.SetDefault("IMAGE_STORE_FOLDER", "melodia/profiles")
	viper.SetDefault("PUBLIC_DIR", "public")
	viper.SetDefault("SWEEP_INTERVAL_HOURS", 168)

	cfg := &Config{
		APIPort:  viper.GetString("API_PORT"),
		Env:      viper.GetString("APP_ENV"),
		LogLevel: viper.GetString("LOG_LEVEL"),
		BaseURL:  viper.GetString("BASE_URL"),

		DBHost:     viper.GetString("DB_HOST"),
		DBPort:     viper.GetString("DB_PORT"),
		DBUser:     viper.GetString("DB_USER"),
		DBPassword: viper.GetString("DB_PASSWORD"),
		DBName:     viper.GetString("DB_NAME"),
		DBSslMode:  viper.GetString("DB_SSLMODE"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		SessionTTL:    time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,

		JWTSecret:     []byte(viper.GetString("JWT_SECRET")),
		JWTExp:        time.Duration(viper.GetInt("JWT_EXPIRATION_MINUTES")) * time.Minute,
		RefreshSecret: []byte(viper.GetString("REFRESH_TOKEN_SECRET")),
		RefreshExp:    time.Duration(viper.GetInt("REFRESH_EXPIRATION_HOURS")) * time.Hour,

		SMTPHost:     viper.GetString("SMTP_HOST"),
		SMTPPort:     viper.GetString("SMTP_PORT"),
		SMTPUser:     viper.GetString("SMTP_USER"),
		SMTPPassword: viper.GetString("SMTP_PASSWORD"),
		MailFrom:     viper.GetString("MAIL_FROM"),
		AppName:      viper.GetString("APP_NAME"),

		ImageStoreURL:    viper.GetString("IMAGE_STORE_URL"),
		ImageStoreKey:    viper.GetString("IMAGE_STORE_KEY"),
		ImageStoreFolder: viper.GetString("IMAGE_STORE_FOLDER"),

		PublicDir:     viper.GetString("PUBLIC_DIR"),
		SweepInterval: time.Duration(viper.GetInt("SWEEP_INTERVAL_HOURS")) * time.Hour,
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	return cfg, nil
}
