package mock

import (
	"fmt"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce sync.Once
	testRedis *Redis
	redisErr  error
)

// Redis is an in-process Redis server with a client connected to it. The plan cache
// under test talks to Client; Server gives scenarios direct access to the keyspace.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts the shared server once.
func NewRedis() (*Redis, error) {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			redisErr = fmt.Errorf("start miniredis: %w", err)
			return
		}
		testRedis = &Redis{
			Server: server,
			Client: redis.NewClient(&redis.Options{Addr: server.Addr()}),
		}
	})
	return testRedis, redisErr
}

// Clear drops every key, plan generations included.
func (r *Redis) Clear() {
	r.Server.FlushAll()
}
