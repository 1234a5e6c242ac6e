package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// LoggerOptions GORM 日志适配器选项
type LoggerOptions struct {
	// SlowThreshold 慢查询阈值，0 表示不检测
	SlowThreshold time.Duration
	// IgnoreRecordNotFoundError 不记录 ErrRecordNotFound
	IgnoreRecordNotFoundError bool
	// LogLevel GORM 侧的日志级别
	LogLevel gormlogger.LogLevel
}

// DefaultLoggerOptions 默认选项：200ms 慢查询、忽略 record not found、Warn 级别
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		LogLevel:                  gormlogger.Warn,
	}
}

// gormLogger 把 GORM 日志转发到 Logger
//
//	Info  -> INFO
//	Warn  -> WARNING
//	Error -> ERROR
//	Trace -> 出错 ERROR，慢查询 WARNING，其余 DEBUG
type gormLogger struct {
	logger  *logging.Logger
	options LoggerOptions
}

// NewLogger 创建 gorm logger.Interface 适配器，l 为 nil 时使用默认 Logger
func NewLogger(l *logging.Logger, opts LoggerOptions) gormlogger.Interface {
	if l == nil {
		l = logging.Default()
	}
	return &gormLogger{logger: l, options: opts}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *g
	copied.options.LogLevel = level
	return &copied
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.options.LogLevel >= gormlogger.Info {
		g.logger.Logf(logging.LogLevelInfo, msg, data...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.options.LogLevel >= gormlogger.Warn {
		g.logger.Logf(logging.LogLevelWarning, msg, data...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.options.LogLevel >= gormlogger.Error {
		g.logger.Logf(logging.LogLevelError, msg, data...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.options.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && g.options.LogLevel >= gormlogger.Error &&
		(!errors.Is(err, gorm.ErrRecordNotFound) || !g.options.IgnoreRecordNotFoundError):
		sql, rows := fc()
		g.logger.Error(g.line(fmt.Sprintf("%v", err), elapsed, rows, sql))
	case g.options.SlowThreshold != 0 && elapsed > g.options.SlowThreshold && g.options.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		g.logger.Warning(g.line(fmt.Sprintf("SLOW SQL >= %v", g.options.SlowThreshold), elapsed, rows, sql))
	case g.options.LogLevel == gormlogger.Info:
		sql, rows := fc()
		g.logger.Debug(g.line("", elapsed, rows, sql))
	}
}

// line 拼接一条 SQL 日志：caller note [耗时] [rows:n] sql
func (g *gormLogger) line(note string, elapsed time.Duration, rows int64, sql string) string {
	rowText := "-"
	if rows != -1 {
		rowText = fmt.Sprintf("%d", rows)
	}
	prefix := utils.FileWithLineNum()
	if note != "" {
		prefix += " " + note
	}
	return fmt.Sprintf("%s [%.3fms] [rows:%s] %s", prefix, float64(elapsed.Nanoseconds())/1e6, rowText, sql)
}
