package config

import (
	"os"
	"time"
)

type CacheConfig struct {
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	SubscriptionTTL time.Duration
	QuoteTTL        time.Duration
}

func NewCacheConfig() *CacheConfig {
	return &CacheConfig{
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         0,
		SubscriptionTTL: 5 * time.Minute,
		QuoteTTL:        24 * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
