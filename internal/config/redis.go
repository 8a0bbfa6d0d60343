package config

import (
	"os"
	"strconv"
)

const (
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	redisDBEnv       = "REDIS_DB"
	redisTLSEnv      = "REDIS_TLS"
	redisDisabledEnv = "REDIS_DISABLED"

	defaultRedisAddr = "localhost:6379"
	defaultRedisDB   = 0
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
	// Disabled turns the distributed run lock off.
	Disabled bool
}

func LoadRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		addr = defaultRedisAddr
	}

	password := os.Getenv(redisPasswordEnv)

	db := defaultRedisDB
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	return &RedisConfig{
		Addr:     addr,
		Password: password,
		DB:       db,
		TLS:      os.Getenv(redisTLSEnv) == "true",
		Disabled: os.Getenv(redisDisabledEnv) == "true",
	}, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil {
		return ErrRedisAddrMissing
	}
	if c.Disabled {
		return nil
	}
	if c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
