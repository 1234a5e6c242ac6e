package mongodb

import (
	"github.com/gocrud/easylog/logging"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Sink 实现 options.LogSink，把驱动日志转发到 Logger
// 驱动的 V(1) 记为 INFO，更高的详细级别记为 DEBUG，Error 记为 ERROR
type Sink struct {
	logger *logging.Logger
}

// NewSink 创建驱动日志输出，l 为 nil 时使用默认 Logger
func NewSink(l *logging.Logger) *Sink {
	if l == nil {
		l = logging.Default()
	}
	return &Sink{logger: l}
}

func (s *Sink) Info(level int, message string, keysAndValues ...any) {
	lvl := logging.LogLevelDebug
	if level <= int(options.LogLevelInfo) {
		lvl = logging.LogLevelInfo
	}
	s.logger.Log(lvl, logging.AppendKeyValues(message, keysAndValues...))
}

func (s *Sink) Error(err error, message string, keysAndValues ...any) {
	kv := append(keysAndValues[:len(keysAndValues):len(keysAndValues)], "error", err)
	s.logger.Error(logging.AppendKeyValues(message, kv...))
}

// LoggerOptions 返回使用 Sink 的驱动日志选项，命令组件按 level 输出
func LoggerOptions(l *logging.Logger, level options.LogLevel) *options.LoggerOptions {
	return options.Logger().
		SetSink(NewSink(l)).
		SetComponentLevel(options.LogComponentCommand, level)
}
