package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
type Config struct {
	Env        string           // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       // HTTP holds the API and monitoring listeners.
	Database   PostgresConfig   // Database holds the postgres database configuration.
	Redis      RedisConfig      // Redis holds the employee cache configuration. Empty Addr disables it.
	Auth       AuthConfig       // Auth holds the token settings.
	Attendance AttendanceConfig // Attendance holds the working-day rules.
	Telegram   TelegramConfig   // Telegram holds the HR chat bot. Empty Token disables it.
	Mail       MailConfig       // Mail holds the SMTP settings. Empty Host disables it.
	Report     ReportConfig     // Report holds the monthly report schedule.
	Lang       string           // Lang is the language of notifications.
}

type HTTPConfig struct {
	Port           int
	MonitoringPort int
	CORSOrigins    []string
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
	SSLMode  string // SSLMode is passed to the driver as sslmode.
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

type AttendanceConfig struct {
	Location      *time.Location
	LateHour      int
	StandardHours float64
}

type TelegramConfig struct {
	Token  string
	URL    string
	ChatID int64
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	HR       []string
}

type ReportConfig struct {
	Schedule   string
	Recipients []string
}

// MustLoad reads .env, then CHRONOS_* variables, then the optional YAML file named by CONFIG_PATH.
// It panics when the file is unreadable or a required setting is missing.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("chronos")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	secret := v.GetString("auth.jwt_secret")
	if secret == "" {
		panic("jwt secret is required")
	}

	location, err := time.LoadLocation(v.GetString("attendance.timezone"))
	if err != nil {
		panic("failed to load time zone from configuration")
	}

	return &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Port:           v.GetInt("http.port"),
			MonitoringPort: v.GetInt("http.monitoring_port"),
			CORSOrigins:    list(v, "http.cors_origins"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Auth: AuthConfig{
			JWTSecret: secret,
			TokenTTL:  v.GetDuration("auth.token_ttl"),
			Issuer:    v.GetString("auth.issuer"),
		},
		Attendance: AttendanceConfig{
			Location:      location,
			LateHour:      v.GetInt("attendance.late_hour"),
			StandardHours: v.GetFloat64("attendance.standard_hours"),
		},
		Telegram: TelegramConfig{
			Token:  v.GetString("telegram.token"),
			URL:    v.GetString("telegram.url"),
			ChatID: v.GetInt64("telegram.chat_id"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			User:     v.GetString("mail.user"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
			HR:       list(v, "mail.hr"),
		},
		Report: ReportConfig{
			Schedule:   v.GetString("report.schedule"),
			Recipients: list(v, "report.recipients"),
		},
		Lang: v.GetString("lang"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.monitoring_port", 9090)
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.ttl", 10*time.Minute)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.issuer", "chronos")
	v.SetDefault("attendance.timezone", "UTC")
	v.SetDefault("attendance.late_hour", 8)
	v.SetDefault("attendance.standard_hours", 8)
	v.SetDefault("mail.port", 587)
	v.SetDefault("report.schedule", "0 7 1 * *")
	v.SetDefault("lang", "en")
}

// list reads a string list given either as a YAML sequence or a comma separated variable.
func list(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
