package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven knob of the service.
// A .env file (if present) is loaded by main before parsing.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DB_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`

	// ChatChannel is the process-wide Redis pub/sub channel shared by every
	// server instance for message fanout.
	ChatChannel string `env:"CHAT_CHANNEL" envDefault:"chat-messages"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-super-secret-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	AsynqConcurrency int    `env:"ASYNQ_CONCURRENCY" envDefault:"10"`
	AsynqQueues      string `env:"ASYNQ_QUEUES" envDefault:"default=1,chat=1"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// QueueWeights parses AsynqQueues ("critical=6,default=3,low=1") into the
// weight map asynq expects. Malformed entries fall back to weight 1.
func (c Config) QueueWeights() map[string]int {
	res := make(map[string]int)
	for _, part := range strings.Split(c.AsynqQueues, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		w := 1
		if len(kv) == 2 {
			if i, err := strconv.Atoi(strings.TrimSpace(kv[1])); err == nil && i > 0 {
				w = i
			}
		}
		res[name] = w
	}
	if len(res) == 0 {
		res["default"] = 1
	}
	return res
}
