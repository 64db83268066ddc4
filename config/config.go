package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Environment string         `json:"environment"`
	Database    DatabaseConfig `json:"database"`
	Redis       RedisConfig    `json:"redis"`
	Server      ServerConfig   `json:"server"`
	Payment     PaymentConfig  `json:"payment"`
	Security    SecurityConfig `json:"security"`
}

type DatabaseConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	User         string        `json:"user"`
	Password     string        `json:"password"`
	DBName       string        `json:"dbname"`
	SSLMode      string        `json:"sslmode"`
	MaxOpenConns int           `json:"max_open_conns"`
	MaxIdleConns int           `json:"max_idle_conns"`
	MaxLifetime  time.Duration `json:"max_lifetime"`
	MaxIdleTime  time.Duration `json:"max_idle_time"`
}

type RedisConfig struct {
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

type ServerConfig struct {
	Port           string        `json:"port"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	IdleTimeout    time.Duration `json:"idle_timeout"`
	AllowedOrigins []string      `json:"allowed_origins"`
}

// PaymentConfig controls intent lifetime and the shape of minted payment
// codes. TokenForm is "short" (fits a UPI transaction note) or "long".
type PaymentConfig struct {
	IntentTTL      time.Duration `json:"intent_ttl"`
	TokenForm      string        `json:"token_form"`
	SweepInterval  time.Duration `json:"sweep_interval"`
	SweepRetention time.Duration `json:"sweep_retention"`
}

type SecurityConfig struct {
	RateLimitEnabled bool    `json:"rate_limit_enabled"`
	RateLimitRPS     float64 `json:"rate_limit_rps"`
	RateLimitBurst   int     `json:"rate_limit_burst"`
}

func LoadConfig() (*Config, error) {
	config := &Config{}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	config.Environment = env

	configDir, err := filepath.Abs("config")
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, "config.json")

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}

		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	config.loadFromEnv()

	config.setEnvironmentDefaults()

	return config, nil
}

func (c *Config) loadFromEnv() {
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		c.Database.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		c.Database.SSLMode = sslmode
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Redis.Port = p
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}

	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		c.Server.Port = serverPort
	}

	if ttl := os.Getenv("PAYMENT_INTENT_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Payment.IntentTTL = d
		}
	}
	if form := os.Getenv("PAYMENT_TOKEN_FORM"); form != "" {
		c.Payment.TokenForm = form
	}
}

func (c *Config) setEnvironmentDefaults() {
	switch c.Environment {
	case "production":
		c.setProductionDefaults()
	default: // development
		c.setDevelopmentDefaults()
	}
	c.setCommonDefaults()
}

func (c *Config) setDevelopmentDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Security.RateLimitRPS == 0 {
		c.Security.RateLimitRPS = 100.0
	}
	if c.Security.RateLimitBurst == 0 {
		c.Security.RateLimitBurst = 200
	}
}

func (c *Config) setProductionDefaults() {
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "require"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 100
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxLifetime == 0 {
		c.Database.MaxLifetime = time.Hour
	}
	if c.Database.MaxIdleTime == 0 {
		c.Database.MaxIdleTime = 10 * time.Minute
	}
	if c.Security.RateLimitRPS == 0 {
		c.Security.RateLimitRPS = 10.0
	}
	if c.Security.RateLimitBurst == 0 {
		c.Security.RateLimitBurst = 20
	}
	c.Security.RateLimitEnabled = true
}

func (c *Config) setCommonDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = time.Hour
	}
	if c.Payment.IntentTTL == 0 {
		c.Payment.IntentTTL = 30 * time.Minute
	}
	if c.Payment.TokenForm == "" {
		c.Payment.TokenForm = "short"
	}
	if c.Payment.SweepInterval == 0 {
		c.Payment.SweepInterval = 15 * time.Minute
	}
	if c.Payment.SweepRetention == 0 {
		c.Payment.SweepRetention = 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database port is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Payment.TokenForm != "short" && c.Payment.TokenForm != "long" {
		return fmt.Errorf("payment token form must be \"short\" or \"long\", got %q", c.Payment.TokenForm)
	}
	if c.Payment.IntentTTL <= 0 {
		return fmt.Errorf("payment intent TTL must be positive")
	}
	return nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
