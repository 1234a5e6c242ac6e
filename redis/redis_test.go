package redis

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*logging.Logger, *bytes.Buffer) {
	var out bytes.Buffer
	l := logging.NewLoggingBuilder().
		AddConsole(logging.ConsoleLoggerOptions{Output: &out, Color: logging.ColorNever}).
		Build()
	return l, &out
}

func TestLoggerPrintf(t *testing.T) {
	l, out := newTestLogger()

	NewLogger(l, logging.LogLevelWarning).Printf(context.Background(), "redis: %s failed: %d\n", "auth", 3)
	NewLogger(l, logging.LogLevelInfo).Printf(context.Background(), "pool size %d", 10)

	assert.Equal(t, "[WARNING] redis: auth failed: 3\n[INFO] pool size 10\n", out.String())
}

func TestInstall(t *testing.T) {
	l, _ := newTestLogger()
	assert.NotPanics(t, func() { Install(l) })
}

func TestHookProcess(t *testing.T) {
	l, out := newTestLogger()
	h := NewHook(l)
	ctx := context.Background()

	ok := h.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error { return nil })
	miss := h.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error { return redis.Nil })
	fail := h.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error { return errors.New("READONLY") })

	require.NoError(t, ok(ctx, redis.NewStatusCmd(ctx, "set", "k", "v")))
	require.ErrorIs(t, miss(ctx, redis.NewStringCmd(ctx, "get", "k")), redis.Nil)
	require.Error(t, fail(ctx, redis.NewIntCmd(ctx, "incr", "n")))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "[DEBUG] redis set k v ("), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "[DEBUG] redis get k ("), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "): nil"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "[ERROR] redis incr n ("), lines[2])
	assert.True(t, strings.HasSuffix(lines[2], "failed: READONLY"), lines[2])
}

func TestHookPipelineAndDial(t *testing.T) {
	l, out := newTestLogger()
	h := NewHook(l)
	ctx := context.Background()

	pipeline := h.ProcessPipelineHook(func(ctx context.Context, cmds []redis.Cmder) error { return nil })
	require.NoError(t, pipeline(ctx, []redis.Cmder{
		redis.NewStringCmd(ctx, "get", "a"),
		redis.NewStringCmd(ctx, "get", "b"),
	}))
	assert.Contains(t, out.String(), "[DEBUG] redis pipeline [get get]")

	dial := h.DialHook(func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	})
	_, err := dial(ctx, "tcp", "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, out.String(), "[ERROR] redis dial tcp 127.0.0.1:1 failed: connection refused")
}

func TestBuilderValidation(t *testing.T) {
	l, _ := newTestLogger()

	_, err := NewBuilder(l).
		AddClient("cache", nil).
		AddClient("cache", nil).
		Build()
	assert.Error(t, err)

	_, err = NewBuilder(l).
		AddClient("bad", func(o *RedisClientOptions) { o.Addr = "" }).
		Build()
	assert.Error(t, err)
}

func TestBuilderUnreachable(t *testing.T) {
	l, _ := newTestLogger()

	_, err := NewBuilder(l).
		AddClient("cache", func(o *RedisClientOptions) {
			o.Addr = "127.0.0.1:1"
			o.DialTimeout = 200 * time.Millisecond
			o.MaxRetries = -1
			o.MinIdleConns = 0
		}).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register redis client 'cache'")
}

func TestFactoryGet(t *testing.T) {
	factory := NewRedisClientFactory(nil)
	_, err := factory.Get("missing")
	assert.Error(t, err)
	assert.NoError(t, factory.Close())
}
