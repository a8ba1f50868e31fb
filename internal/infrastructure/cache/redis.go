package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"clinic-directory/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	pingTimeout = 3 * time.Second
	ioTimeout   = time.Second
)

// NewRedisClient connects and pings Redis. The listing cache is the only
// consumer, so reads and writes use short timeouts and fall through to the database.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  pingTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logrus.Infof("Connected to Redis %s (db %d)", addr, cfg.DB)

	return client, nil
}
