package redisconn

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewFromEnv arma un cliente Redis desde env:
// - REDIS_ADDR=host:port (vacío => no se usa redis)
// - REDIS_PASSWORD (opcional)
// - REDIS_DB (default 0)
// Si no hay addr o el ping falla, devuelve nil: los callers degradan
// (rate limiting apagado) en vez de impedir el arranque.
func NewFromEnv() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	dbNum := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbNum = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
