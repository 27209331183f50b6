package jobs

import (
	"github.com/hibiken/asynq"

	"github.com/JonMunkholm/catalog/internal/config"
)

// RedisOpts builds asynq connection options from the Redis config.
func RedisOpts(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
