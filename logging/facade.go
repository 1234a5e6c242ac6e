package logging

import (
	"sync"
	"sync/atomic"
)

var (
	defaultLogger atomic.Pointer[Logger]
	defaultOnce   sync.Once
)

// Default 返回进程默认 Logger，首次访问时创建
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	defaultOnce.Do(func() {
		defaultLogger.CompareAndSwap(nil, New())
	})
	return defaultLogger.Load()
}

// SetDefault 替换进程默认 Logger
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
}

// Init 对默认 Logger 执行 QuickInit，可选传入日志文件路径
func Init(path ...string) *Logger {
	file := ""
	if len(path) > 0 {
		file = path[0]
	}
	return Default().QuickInit(file)
}

// InitWith 对默认 Logger 执行 QuickInit，并应用模板 / 控制台 / 文件开关
func InitWith(path string, opts ...InitOption) *Logger {
	return Default().QuickInit(path, opts...)
}

// RegisterLevel 在默认 Logger 上注册自定义级别
func RegisterLevel(rank int, name, color string) LogLevel {
	return Default().RegisterLevel(rank, name, color)
}

// SetMinLevel 设置默认 Logger 的最小级别
func SetMinLevel(level LogLevel) {
	Default().SetMinLevel(level)
}

// Log 使用默认 Logger 以任意级别记录
func Log(level LogLevel, msg string) {
	Default().Log(level, msg)
}

// Logf 使用默认 Logger 以任意级别记录格式化消息
func Logf(level LogLevel, format string, args ...any) {
	Default().Logf(level, format, args...)
}

func Debug(msg string) { Default().Log(LogLevelDebug, msg) }

func Debugf(format string, args ...any) { Default().Logf(LogLevelDebug, format, args...) }

func Info(msg string) { Default().Log(LogLevelInfo, msg) }

func Infof(format string, args ...any) { Default().Logf(LogLevelInfo, format, args...) }

func Warning(msg string) { Default().Log(LogLevelWarning, msg) }

func Warningf(format string, args ...any) { Default().Logf(LogLevelWarning, format, args...) }

func Error(msg string) { Default().Log(LogLevelError, msg) }

func Errorf(format string, args ...any) { Default().Logf(LogLevelError, format, args...) }

func Critical(msg string) { Default().Log(LogLevelCritical, msg) }

func Criticalf(format string, args ...any) { Default().Logf(LogLevelCritical, format, args...) }
