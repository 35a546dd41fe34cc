package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Cart     CartConfig     `json:"cart"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type CartConfig struct {
	Currency            string `json:"currency"`
	SessionTTLHours     int    `json:"session_ttl_hours"`
	LockTTLSeconds      int    `json:"lock_ttl_seconds"`
	LockRetries         int    `json:"lock_retries"`
	BloomRefreshMinutes int    `json:"bloom_refresh_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	config.Cart.applyDefaults()

	return &config, nil
}

func (c *CartConfig) applyDefaults() {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 48
	}
	if c.LockTTLSeconds <= 0 {
		c.LockTTLSeconds = 10
	}
	if c.LockRetries <= 0 {
		c.LockRetries = 20
	}
	if c.BloomRefreshMinutes <= 0 {
		c.BloomRefreshMinutes = 5
	}
}

func (c *CartConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *CartConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

func (c *CartConfig) BloomRefreshInterval() time.Duration {
	return time.Duration(c.BloomRefreshMinutes) * time.Minute
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
