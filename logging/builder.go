package logging

import (
	"io"
	"sync"
	"time"
)

// ConsoleLoggerOptions 控制台日志选项
type ConsoleLoggerOptions struct {
	Output io.Writer
	Color  ColorMode
}

// customLevel 待注册的自定义级别
type customLevel struct {
	rank  int
	name  string
	color string
}

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	config         Config
	console        ConsoleLoggerOptions
	diagnostic     io.Writer
	clock          func() time.Time
	maxMessageSize int
	levels         []customLevel
	mu             sync.RWMutex
}

// NewLoggingBuilder 创建日志构建器
// 默认不输出到任何目标，需通过 AddConsole / AddFile 添加
func NewLoggingBuilder() *LoggingBuilder {
	config := DefaultConfig()
	config.Console = false
	return &LoggingBuilder{
		config:         config,
		maxMessageSize: DefaultMaxMessageSize,
		levels:         make([]customLevel, 0),
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.MinLevel = level
	return b
}

// AddConsole 添加控制台日志
func (b *LoggingBuilder) AddConsole(options ...ConsoleLoggerOptions) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.Console = true
	if len(options) > 0 {
		b.console = options[0]
	}
	return b
}

// AddFile 添加文件日志
func (b *LoggingBuilder) AddFile(path string) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.File = true
	b.config.FilePath = path
	return b
}

// UseTemplate 设置模板
func (b *LoggingBuilder) UseTemplate(template string) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.Template = template
	return b
}

// UseTimeStamps 设置小时 / 分钟 / 秒占位符
func (b *LoggingBuilder) UseTimeStamps(hour, minute, second bool) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.Stamps.Hour = hour
	b.config.Stamps.Minute = minute
	b.config.Stamps.Second = second
	return b
}

// UseDateStamp 设置日期占位符
func (b *LoggingBuilder) UseDateStamp(enable bool) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.Stamps.Date = enable
	return b
}

// UseClock 设置时钟
func (b *LoggingBuilder) UseClock(clock func() time.Time) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = clock
	return b
}

// UseDiagnostic 设置诊断输出
func (b *LoggingBuilder) UseDiagnostic(w io.Writer) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostic = w
	return b
}

// UseMaxMessageSize 设置格式化消息上限
func (b *LoggingBuilder) UseMaxMessageSize(n int) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxMessageSize = n
	return b
}

// AddLevel 添加自定义级别（Build 时注册）
func (b *LoggingBuilder) AddLevel(rank int, name, color string) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.levels = append(b.levels, customLevel{rank: rank, name: name, color: color})
	return b
}

// Build 构建 Logger
func (b *LoggingBuilder) Build() *Logger {
	b.mu.RLock()
	defer b.mu.RUnlock()

	logger := New(
		WithConfig(b.config),
		WithOutput(b.console.Output),
		WithColorMode(b.console.Color),
		WithDiagnostic(b.diagnostic),
		WithClock(b.clock),
		WithMaxMessageSize(b.maxMessageSize),
	)

	for _, lvl := range b.levels {
		logger.RegisterLevel(lvl.rank, lvl.name, lvl.color)
	}

	return logger
}
