package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName              string
	AppEnv               string
	AppPort              string
	DatabaseURL          string
	RedisURL             string
	JWTSecret            string
	OpenAIAPIKey         string
	AIModel              string
	AITemperature        float32
	AIMaxTokens          int
	StatsCacheTTL        time.Duration
	RecommendationWindow int
	LeetCodeEndpoint     string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MENTOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Mentor API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("recommendation.window", 7)
	v.SetDefault("leetcode.endpoint", "https://leetcode.com/graphql")

	ttlString := v.GetString("stats.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		DatabaseURL:          v.GetString("database.url"),
		RedisURL:             v.GetString("redis.url"),
		JWTSecret:            v.GetString("jwt.secret"),
		OpenAIAPIKey:         v.GetString("openai_api_key"),
		AIModel:              v.GetString("ai.model"),
		AITemperature:        float32(v.GetFloat64("ai.temperature")),
		AIMaxTokens:          v.GetInt("ai.max_tokens"),
		StatsCacheTTL:        ttl,
		RecommendationWindow: v.GetInt("recommendation.window"),
		LeetCodeEndpoint:     v.GetString("leetcode.endpoint"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("openai api key must be provided")
	}

	if cfg.RecommendationWindow <= 0 {
		cfg.RecommendationWindow = 7
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 1024
	}

	return cfg, nil
}
