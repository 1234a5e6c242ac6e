package cron

import (
	"github.com/gocrud/easylog/logging"
	"github.com/robfig/cron/v3"
)

// cronLogger 适配器：把 cron 库的日志转发到 Logger
// Info 记录为 INFO，Error 记录为 ERROR，键值对以 " key=value" 追加在消息后
type cronLogger struct {
	logger *logging.Logger
}

// NewLogger 创建 cron.Logger 适配器，l 为 nil 时使用默认 Logger
func NewLogger(l *logging.Logger) cron.Logger {
	if l == nil {
		l = logging.Default()
	}
	return &cronLogger{logger: l}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(logging.AppendKeyValues(msg, keysAndValues...))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	kv := append(keysAndValues[:len(keysAndValues):len(keysAndValues)], "error", err)
	l.logger.Error(logging.AppendKeyValues(msg, kv...))
}
