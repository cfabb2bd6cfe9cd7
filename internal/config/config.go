package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	EventsNone     = "none"
	EventsRabbitMQ = "rabbitmq"
	EventsKafka    = "kafka"
)

type Config struct {
	HTTPAddr    string
	ServiceName string
	LogLevel    string

	DBDriver      string
	MySQLUser     string
	MySQLPassword string
	MySQLHost     string
	MySQLPort     string
	MySQLDatabase string
	PostgresDSN   string

	// RedisAddr empty disables caching.
	RedisAddr string

	EventsDriver     string
	RabbitMQURL      string
	RabbitMQExchange string
	KafkaBrokers     []string
	KafkaTopic       string

	OTLPEndpoint string

	SeedCatalog    bool
	SeedDemoOrders bool

	RequestTimeout time.Duration
}

// ClientConfig configures the guest and staff terminals.
type ClientConfig struct {
	APIURL         string
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		ServiceName: getenv("SERVICE_NAME", "roomservice"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBDriver:      getenv("DB_DRIVER", DriverMySQL),
		MySQLUser:     getenv("MYSQL_USER", "roomservice"),
		MySQLPassword: os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:     getenv("MYSQL_HOST", "localhost"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDatabase: getenv("MYSQL_DATABASE", "roomservice"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		EventsDriver:     getenv("EVENTS_DRIVER", EventsNone),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getenv("RABBITMQ_EXCHANGE", "order.exchange"),
		KafkaBrokers:     splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       getenv("KAFKA_TOPIC", "order.events"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.SeedCatalog, err = getbool("SEED_CATALOG", true); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemoOrders, err = getbool("SEED_DEMO_ORDERS", false); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = getduration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks that the selected drivers have what they need.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLDatabase == "" {
			return errors.New("config: MYSQL_HOST and MYSQL_DATABASE are required for the mysql driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("config: POSTGRES_DSN is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.EventsDriver {
	case EventsNone:
	case EventsRabbitMQ:
		if c.RabbitMQURL == "" {
			return errors.New("config: RABBITMQ_URL is required for the rabbitmq events driver")
		}
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			return errors.New("config: KAFKA_BROKERS is required for the kafka events driver")
		}
	default:
		return fmt.Errorf("config: unknown EVENTS_DRIVER %q", c.EventsDriver)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// LoadClient reads the terminal settings from an optional .env file and the
// environment.
func LoadClient() (ClientConfig, error) {
	_ = godotenv.Load()

	cfg := ClientConfig{APIURL: getenv("ROOMSERVICE_API", "http://localhost:8080")}
	var err error
	if cfg.RequestTimeout, err = getduration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return ClientConfig{}, err
	}
	if cfg.PollInterval, err = getduration("POLL_INTERVAL", 10*time.Second); err != nil {
		return ClientConfig{}, err
	}
	if cfg.RequestTimeout <= 0 || cfg.PollInterval <= 0 {
		return ClientConfig{}, errors.New("config: REQUEST_TIMEOUT and POLL_INTERVAL must be positive")
	}
	return cfg, nil
}

func (c Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s: %w", k, err)
	}
	return b, nil
}

func getduration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", k, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
