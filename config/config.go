package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig        `yaml:"server"`
	Logger  LoggerConfig        `yaml:"logger"`
	Store   StoreConfig         `yaml:"store"`
	Redis   RedisConfig         `yaml:"redis"`
	Kafka   KafkaConfig         `yaml:"kafka"`
	Elastic ElasticsearchConfig `yaml:"elastic"`
	Engine  EngineConfig        `yaml:"engine"`
}

type ServerConfig struct {
	AppEnv   string `yaml:"app_env"`
	HTTPPort string `yaml:"http_port"`
	GRPCPort string `yaml:"grpc_port"`
}

type LoggerConfig struct {
	Level             string `yaml:"level"`
	Encoding          string `yaml:"encoding"`
	DisableCaller     bool   `yaml:"disable_caller"`
	DisableStacktrace bool   `yaml:"disable_stacktrace"`
}

// StoreConfig selects the persistence backend: memory, sqlite3, mysql or
// redis.
type StoreConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	KeyPrefix       string `yaml:"key_prefix"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Brokers     []string `yaml:"brokers"`
	OrdersTopic string   `yaml:"orders_topic"`
	SalesTopic  string   `yaml:"sales_topic"`
	GroupID     string   `yaml:"group_id"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

type EngineConfig struct {
	LowStockThreshold int  `yaml:"low_stock_threshold"`
	SeedOnStart       bool `yaml:"seed_on_start"`
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8080"),
			GRPCPort: getEnv("GRPC_PORT", ":8082"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			Driver:          getEnv("STORE_DRIVER", "sqlite3"),
			DSN:             getEnv("STORE_DSN", "file:omnipos.db?_busy_timeout=5000"),
			KeyPrefix:       getEnv("STORE_KEY_PREFIX", "omnipos:"),
			MaxOpenConns:    getEnvInt("STORE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("STORE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("STORE_CONN_MAX_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
			Brokers:     getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrdersTopic: getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			SalesTopic:  getEnv("KAFKA_TOPIC_SALES", "sales.events"),
			GroupID:     getEnv("KAFKA_GROUP_INVENTORY", "register-inventory"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", false),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:     getEnv("ELASTICSEARCH_INDEX", "products"),
		},
		Engine: EngineConfig{
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
			SeedOnStart:       getEnvBool("SEED_ON_START", true),
		},
	}
}

// Load reads .env if present, then the environment, then overlays the
// YAML file at path. Keys absent from the file keep their environment
// values. An empty path skips the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	cfg := LoadEnv()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// IsDevelopment reports whether logs should switch to console/debug.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}
