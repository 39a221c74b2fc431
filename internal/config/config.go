package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel          string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage           string    `yaml:"storage" env:"STORAGE" env-default:"redis"`
	Redis             Redis     `yaml:"redis"`
	SQLiteStoragePath string    `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"addressbook.db"`
	JWTSecretKey      string    `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY" env-required:"true"`
	Auth              Auth      `yaml:"auth"`
	RateLimit         RateLimit `yaml:"rate-limit"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Auth struct {
	// DevTokens exposes an endpoint that signs a token for any identity.
	DevTokens bool `yaml:"dev-tokens" env:"AUTH_DEV_TOKENS" env-default:"false"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if config.Storage != StorageRedis && config.Storage != StorageMemory {
		panic(fmt.Errorf("unknown storage %q", config.Storage))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
