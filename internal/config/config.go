package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingMongoURI is returned by Load when MONGODB_URI is not set.
var ErrMissingMongoURI = errors.New("MONGODB_URI must be set")

type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Consul   ConsulConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ServiceName    string
	ServiceAddress string
	ServiceID      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type MongoDBConfig struct {
	// URI is the base connection string (scheme and host authority). Write
	// options are appended when the client is built.
	URI            string
	ConnectTimeout time.Duration
	EnsureIndexes  bool
}

type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	RateLimit int
	// RateWindow is the fixed window RateLimit applies to.
	RateWindow time.Duration
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Enabled bool
	Address string
}

type LoggerConfig struct {
	Level       string
	Env         string
	ServiceName string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "6666")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("QUIZ_SERVICE_NAME", "quiz-service")
	v.SetDefault("QUIZ_SERVICE_ADDRESS", "quiz-service")
	v.SetDefault("HOSTNAME", "quiz")
	v.SetDefault("READ_TIMEOUT", 15*time.Second)
	v.SetDefault("WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("ALLOW_ORIGINS", "http://localhost:3000")

	v.SetDefault("MONGODB_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGODB_ENSURE_INDEXES", true)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT", 60)
	v.SetDefault("RATE_WINDOW", time.Minute)

	v.SetDefault("RABBITMQ_URI", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "quiz.events")

	v.SetDefault("CONSUL_ENABLED", false)
	v.SetDefault("CONSUL_ADDRESS", "consul-server:8500")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENV", "development")
}

// Load reads the service configuration from the environment. Only MONGODB_URI is
// mandatory; every other key has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	serviceName := v.GetString("QUIZ_SERVICE_NAME")
	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Host:           v.GetString("HOST"),
			ServiceName:    serviceName,
			ServiceAddress: v.GetString("QUIZ_SERVICE_ADDRESS"),
			ServiceID:      serviceName + "-" + v.GetString("HOSTNAME"),
			ReadTimeout:    v.GetDuration("READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("WRITE_TIMEOUT"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
			AllowOrigins:   splitList(v.GetString("ALLOW_ORIGINS")),
		},
		MongoDB: MongoDBConfig{
			URI:            v.GetString("MONGODB_URI"),
			ConnectTimeout: v.GetDuration("MONGODB_CONNECT_TIMEOUT"),
			EnsureIndexes:  v.GetBool("MONGODB_ENSURE_INDEXES"),
		},
		Redis: RedisConfig{
			Address:    v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			RateLimit:  v.GetInt("RATE_LIMIT"),
			RateWindow: v.GetDuration("RATE_WINDOW"),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      v.GetString("RABBITMQ_URI"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Consul: ConsulConfig{
			Enabled: v.GetBool("CONSUL_ENABLED"),
			Address: v.GetString("CONSUL_ADDRESS"),
		},
		Logger: LoggerConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Env:         v.GetString("ENV"),
			ServiceName: serviceName,
		},
	}

	if cfg.MongoDB.URI == "" {
		return nil, ErrMissingMongoURI
	}
	return cfg, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
