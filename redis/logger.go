package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Logger 实现 go-redis 内部日志接口 Printf(ctx, format, v...)
type Logger struct {
	logger *logging.Logger
	level  logging.LogLevel
}

// NewLogger 创建 go-redis 日志适配器，所有内部日志以 level 记录
func NewLogger(l *logging.Logger, level logging.LogLevel) *Logger {
	if l == nil {
		l = logging.Default()
	}
	return &Logger{logger: l, level: level}
}

func (r *Logger) Printf(ctx context.Context, format string, v ...interface{}) {
	r.logger.Logf(r.level, strings.TrimSuffix(format, "\n"), v...)
}

// Install 把 go-redis 的全局内部日志转发到 l（WARNING 级别）
func Install(l *logging.Logger) {
	redis.SetLogger(NewLogger(l, logging.LogLevelWarning))
}

// hook 记录每条命令：成功与 redis.Nil 记为 DEBUG，其余错误记为 ERROR
type hook struct {
	logger *logging.Logger
}

// NewHook 创建命令日志 Hook
func NewHook(l *logging.Logger) redis.Hook {
	if l == nil {
		l = logging.Default()
	}
	return &hook{logger: l}
}

func (h *hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Errorf("redis dial %s %s failed: %v", network, addr, err)
		}
		return conn, err
	}
}

func (h *hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(describe(cmd), time.Since(start), err)
		return err
	}
}

func (h *hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		h.record("pipeline ["+strings.Join(names, " ")+"]", time.Since(start), err)
		return err
	}
}

func (h *hook) record(what string, elapsed time.Duration, err error) {
	switch {
	case err == nil:
		h.logger.Debugf("redis %s (%s)", what, elapsed)
	case errors.Is(err, redis.Nil):
		h.logger.Debugf("redis %s (%s): nil", what, elapsed)
	default:
		h.logger.Errorf("redis %s (%s) failed: %v", what, elapsed, err)
	}
}

func describe(cmd redis.Cmder) string {
	parts := make([]string, 0, len(cmd.Args()))
	for _, arg := range cmd.Args() {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, " ")
}
