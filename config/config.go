package config

import (
	"os"
	"strconv"
	"strings"

	"campus-market/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   DB

	Redis Redis
	Kafka Kafka
	Token Token
	Order Order
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	CartTTLMin int
}

type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type Token struct {
	AccessSecret string
	Issuer       string
	Audience     string
}

type Order struct {
	MaxQuantityPerLine int32
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Redis: Redis{
			Enabled:    os.Getenv("REDIS_ENABLED") == "true",
			Addr:       getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         atoiDefault(os.Getenv("REDIS_DB"), 0),
			CartTTLMin: atoiDefault(os.Getenv("CART_TTL_MINUTES"), 60*24*7),
		},
		Kafka: Kafka{
			Enabled: os.Getenv("KAFKA_ENABLED") == "true",
			Brokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvDefault("KAFKA_TOPIC_ORDERS", "orders.events"),
		},
		Token: Token{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", log),
			Issuer:       getEnvDefault("JWT_ISSUER", "campus-market"),
			Audience:     getEnvDefault("JWT_AUDIENCE", "campus-market-api"),
		},
		Order: Order{
			MaxQuantityPerLine: int32(atoiDefault(os.Getenv("ORDER_MAX_QTY_PER_LINE"), 100)),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
