package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Cache    Cache
	Redis    Redis
	Auth     Auth
	Logging  Logging
	Metrics  Metrics
	Probe    Probe
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"quality-evaluator"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

type Cache struct {
	Driver string        `env:"CACHE_DRIVER" envDefault:"memory"`
	TTL    time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DATABASE_NUMBER" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNECTIONS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNECTIONS" envDefault:"5"`
}

type Auth struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET,required" json:"-"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
}

type Logging struct {
	FieldMaxLen   int  `env:"LOG_FIELD_MAX_LEN" envDefault:"2048"`
	MaskSensitive bool `env:"LOG_MASK_SENSITIVE" envDefault:"true"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
