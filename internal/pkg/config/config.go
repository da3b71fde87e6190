package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Tracking TrackingConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type TrackingConfig struct {
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT,  default=5s"`
	SerialWorkers int           `env:"SERIAL_WORKERS, default=8"`
	OutboxBuffer  int           `env:"OUTBOX_BUFFER,  default=1024"`
	DedupTTL      time.Duration `env:"DEDUP_TTL,      default=1h"`
	StatsCron     string        `env:"STATS_CRON,     default=@every 30s"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=tracking"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE,   default=100"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr         string `env:"REDIS_ADDR,          default=localhost:6379"`
	Password     string `env:"REDIS_PASSWORD"`
	DB           int    `env:"REDIS_DB,            default=0"`
	PoolSize     int    `env:"REDIS_POOL_SIZE,     default=0"`
	RelayChannel string `env:"REDIS_RELAY_CHANNEL"`
}

// KafkaConfig enables the push notification sink when Brokers is set.
type KafkaConfig struct {
	Brokers           string `env:"KAFKA_BROKERS"`
	NotificationTopic string `env:"KAFKA_NOTIFICATION_TOPIC, default=order-notifications"`
}

// AuthEnabled reports whether requests must carry a signed token.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l.
func LoadWith(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
