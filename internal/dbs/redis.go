package dbs

import (
	"context"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

func InitRedis(ctx context.Context, addr string) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return err
	}

	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
}
