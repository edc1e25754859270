package suite

import (
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
)

const (
	containerLifetime = 120 // seconds
	maxWaitDuration   = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// Suite is a session-store test bench backed by a throwaway redis container.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	// Redis is the address block the application would read from config.yml.
	Redis   config.Redis
	Storage *redis.Client
}

// New starts redis and connects through the same storage package the application uses.
// The test is skipped when docker is not reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool, resource := startRedis(t)

	redisConf := redisConfig(resource.GetHostPort(redisPort))

	var redisStorage *storage.RedisStorage
	pool.MaxWait = maxWaitDuration
	err := pool.Retry(func() error {
		var connErr error
		redisStorage, connErr = storage.NewRedisStorage(ctx, redisConf.GetRedisAddr())
		return connErr
	})
	if err != nil {
		_ = pool.Purge(resource)
		t.Fatalf("could not connect to redis: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			t.Logf("could not close redis storage: %v", closeErr)
		}
	})

	if err = redisStorage.Connection.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return ctx, &Suite{
		T:       t,
		Logger:  slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		Redis:   redisConf,
		Storage: redisStorage.Connection,
	}
}

// ExpiresIn reports the remaining ttl of key; negative values follow redis TTL semantics.
func (that *Suite) ExpiresIn(ctx context.Context, key string) time.Duration {
	that.Helper()

	ttl, err := that.Storage.TTL(ctx, key).Result()
	if err != nil {
		that.Fatalf("could not read ttl of %s: %v", key, err)
	}

	return ttl
}

// Keys lists the stored keys that start with prefix.
func (that *Suite) Keys(ctx context.Context, prefix string) []string {
	that.Helper()

	keys, err := that.Storage.Keys(ctx, prefix+"*").Result()
	if err != nil {
		that.Fatalf("could not list keys: %v", err)
	}

	return keys
}

func startRedis(t *testing.T) (*dockertest.Pool, *dockertest.Resource) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct docker pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}

	// docker kills the container even if cleanup never runs
	_ = resource.Expire(containerLifetime)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge redis: %v", err)
		}
	})

	return pool, resource
}

func redisConfig(hostPort string) config.Redis {
	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		host, port = hostPort, ""
	}

	return config.Redis{Host: host, Port: port}
}
