package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	Bcrypt BcryptConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type JWTConfig struct {
	// Secret signs all issued tokens. When empty a random secret is generated
	// at startup, which invalidates outstanding tokens on every restart.
	Secret        string `env:"JWT_SECRET"`
	Audience      string `env:"JWT_AUDIENCE, default=*"`
	Issuer        string `env:"JWT_ISSUER,   default=http://localhost:8080"`
	ExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=11520"`
}

type BcryptConfig struct {
	Cost int `env:"BCRYPT_COST, default=12"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_service"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
