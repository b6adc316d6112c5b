package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// MinJWTKeyLength — ключ подписи HS256 не короче 256 бит.
const MinJWTKeyLength = 32

type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	HTTPAddr string `mapstructure:"HTTP_ADDR" validate:"required"`
	GRPCAddr string `mapstructure:"GRPC_ADDR"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=console json"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Часовой пояс клиники: в нём интерпретируются даты и время бронирований.
	ClinicTimeZone string        `mapstructure:"CLINIC_TIMEZONE" validate:"required"`
	CancelLeadTime time.Duration `mapstructure:"CANCEL_LEAD_TIME" validate:"gte=0"`

	JWTKey      string        `mapstructure:"JWT_KEY" validate:"required"`
	JWTIssuer   string        `mapstructure:"JWT_ISSUER" validate:"required"`
	JWTAudience string        `mapstructure:"JWT_AUDIENCE" validate:"required"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL" validate:"gt=0"`

	// Пустой SMS_API_KEY: коды только пишутся в лог (режим разработки).
	SMSAPIURL     string `mapstructure:"SMS_API_URL" validate:"required,url"`
	SMSAPIKey     string `mapstructure:"SMS_API_KEY"`
	SMSLineNumber string `mapstructure:"SMS_LINE_NUMBER"`

	VerificationCodeTTL   time.Duration `mapstructure:"VERIFICATION_CODE_TTL" validate:"gt=0"`
	VerificationPerMinute float64       `mapstructure:"VERIFICATION_PER_MINUTE" validate:"gt=0"`
	VerificationBurst     int           `mapstructure:"VERIFICATION_BURST" validate:"gte=1"`

	// Пустой REDIS_ADDR: блокировка слотов между инстансами выключена.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	SlotLockTTL   time.Duration `mapstructure:"SLOT_LOCK_TTL" validate:"gt=0"`

	DB DBConfig `mapstructure:",squash"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	// .env необязателен: без него всё берётся из окружения и дефолтов.
	_ = v.ReadInConfig()
	return v
}

// Load собирает конфигурацию из .env, переменных окружения и дефолтов.
func Load() (*Config, error) {
	v := newViper()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("CLINIC_TIMEZONE", "UTC")
	v.SetDefault("CANCEL_LEAD_TIME", "24h")
	v.SetDefault("JWT_ISSUER", "clinic-booking")
	v.SetDefault("JWT_AUDIENCE", "clinic-booking-clients")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("SMS_API_URL", "https://api.sms.ir/v1/send/bulk")
	v.SetDefault("VERIFICATION_CODE_TTL", "5m")
	v.SetDefault("VERIFICATION_PER_MINUTE", 1)
	v.SetDefault("VERIFICATION_BURST", 3)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SLOT_LOCK_TTL", "10s")
	setDBDefaults(v)

	for _, key := range []string{"JWT_KEY", "SMS_API_KEY", "SMS_LINE_NUMBER", "REDIS_ADDR", "REDIS_PASSWORD"} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет теги validate и то, что не выражается тегами.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.JWTKey) < MinJWTKeyLength {
		return fmt.Errorf("invalid config: JWT_KEY must be at least %d bytes", MinJWTKeyLength)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.DB.Validate()
}

// Location: часовой пояс клиники.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ClinicTimeZone)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
