package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Config 日志配置
type Config struct {
	Template string
	Stamps   Stamps
	Console  bool
	File     bool
	FilePath string
	MinLevel LogLevel
}

// DefaultConfig 默认配置：控制台输出、"[%l] %m"、不带时间、最小级别 DEBUG
func DefaultConfig() Config {
	return Config{
		Template: DefaultTemplate,
		Console:  true,
		MinLevel: LogLevelDebug,
	}
}

// Logger 日志记录器
// 过滤、渲染和写入全部在同一把锁内完成，多 goroutine 并发写入时单行不会交错
type Logger struct {
	config         Config
	console        *ConsoleSink
	diagnostic     io.Writer
	clock          func() time.Time
	registry       *LevelRegistry
	maxMessageSize int
	mu             sync.Mutex
}

// Option Logger 构造选项
type Option func(*Logger)

// WithConfig 设置初始配置
func WithConfig(config Config) Option {
	return func(l *Logger) {
		l.config = config
	}
}

// WithOutput 设置控制台输出目标（默认 os.Stdout）
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.console.Output = w
		}
	}
}

// WithColorMode 设置控制台颜色模式
func WithColorMode(mode ColorMode) Option {
	return func(l *Logger) {
		l.console.Color = mode
	}
}

// WithDiagnostic 设置诊断输出（默认 os.Stderr），用于报告日志自身的错误
func WithDiagnostic(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.diagnostic = w
		}
	}
}

// WithClock 设置时钟（默认 time.Now）
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithRegistry 使用外部级别注册表
// 注册表只保留一个冲突回调：多个 Logger 共享时，冲突警告写到最后一个 New 的 Logger 的诊断输出
func WithRegistry(registry *LevelRegistry) Option {
	return func(l *Logger) {
		if registry != nil {
			l.registry = registry
		}
	}
}

// WithMaxMessageSize 设置格式化消息上限，<= 0 表示不限制
func WithMaxMessageSize(n int) Option {
	return func(l *Logger) {
		l.maxMessageSize = n
	}
}

// New 创建 Logger
func New(opts ...Option) *Logger {
	l := &Logger{
		config:         DefaultConfig(),
		console:        NewConsoleSink(os.Stdout, ColorAlways),
		diagnostic:     os.Stderr,
		clock:          time.Now,
		registry:       NewLevelRegistry(),
		maxMessageSize: DefaultMaxMessageSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.registry.SetConflictHandler(l.levelConflict)
	return l
}

func (l *Logger) levelConflict(previous, next LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.diagnostic, "[easylog] WARNING: level rank %d re-registered: %s replaced by %s\n",
		next.rank, previous.String(), next.String())
}

// SetLogFile 设置日志文件路径并启用文件输出
func (l *Logger) SetLogFile(path string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.FilePath = path
	l.config.File = true
	return l
}

// SetTemplate 设置模板
func (l *Logger) SetTemplate(template string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Template = template
	return l
}

// EnableConsole 启用 / 禁用控制台输出
func (l *Logger) EnableConsole(enable bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Console = enable
	return l
}

// EnableFile 启用 / 禁用文件输出
func (l *Logger) EnableFile(enable bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.File = enable
	return l
}

// EnableTimeStamps 分别设置小时 / 分钟 / 秒占位符
func (l *Logger) EnableTimeStamps(hour, minute, second bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Stamps.Hour = hour
	l.config.Stamps.Minute = minute
	l.config.Stamps.Second = second
	return l
}

// EnableDateStamp 启用 / 禁用日期占位符
func (l *Logger) EnableDateStamp(enable bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Stamps.Date = enable
	return l
}

// SetMinLevel 设置最小级别
func (l *Logger) SetMinLevel(level LogLevel) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.MinLevel = level
	return l
}

// InitOption 覆盖 QuickInit 的默认设置
type InitOption func(*Logger)

// InitTemplate 使用自定义模板
func InitTemplate(template string) InitOption {
	return func(l *Logger) { l.SetTemplate(template) }
}

// InitConsole 控制台输出开关
func InitConsole(enable bool) InitOption {
	return func(l *Logger) { l.EnableConsole(enable) }
}

// InitFile 文件输出开关，关闭后即使传入 path 也不写文件
func InitFile(enable bool) InitOption {
	return func(l *Logger) { l.EnableFile(enable) }
}

// QuickInit 常用配置：日期 + 时间 + 级别 + 消息，输出到控制台；path 非空时同时输出到文件
// opts 在默认设置之后应用
func (l *Logger) QuickInit(path string, opts ...InitOption) *Logger {
	l.SetTemplate(QuickTemplate).
		EnableConsole(true).
		EnableTimeStamps(true, true, true).
		EnableDateStamp(true)
	if path != "" {
		l.SetLogFile(path)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config 返回当前配置快照
func (l *Logger) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.config
}

// Registry 返回级别注册表
func (l *Logger) Registry() *LevelRegistry {
	return l.registry
}

// RegisterLevel 注册自定义级别
func (l *Logger) RegisterLevel(rank int, name, color string) LogLevel {
	return l.registry.Register(rank, name, color)
}

// Enabled 判断级别是否会被输出
func (l *Logger) Enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level.Enabled(l.config.MinLevel)
}

// Log 以指定级别记录消息
func (l *Logger) Log(level LogLevel, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !level.Enabled(l.config.MinLevel) {
		return
	}

	entry := &LogEntry{
		Time:    l.clock(),
		Level:   level,
		Message: msg,
	}
	formatter := TemplateFormatter{
		Template: l.config.Template,
		Stamps:   l.config.Stamps,
	}

	if l.config.Console {
		formatter.NoColor = !l.console.Colored()
		l.console.Write(formatter.Format(entry, TargetConsole))
	}

	if l.config.File && l.config.FilePath != "" {
		sink := FileSink{Path: l.config.FilePath}
		if err := sink.Append(formatter.Format(entry, TargetFile)); err != nil {
			fmt.Fprintf(l.diagnostic, "[easylog] ERROR: file sink %s: %v\n", l.config.FilePath, err)
		}
	}
}

// Logf 以指定级别记录格式化消息
// 格式化失败时记录 FormatFailedMessage，并把原因写到诊断输出
func (l *Logger) Logf(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg, err := Sprintf(l.maxMessageSize, format, args...)
	if err != nil {
		fmt.Fprintf(l.diagnostic, "[easylog] ERROR: %v\n", err)
		msg = FormatFailedMessage
	}
	l.Log(level, msg)
}

func (l *Logger) Debug(msg string) {
	l.Log(LogLevelDebug, msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.Logf(LogLevelDebug, format, args...)
}

func (l *Logger) Info(msg string) {
	l.Log(LogLevelInfo, msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Logf(LogLevelInfo, format, args...)
}

func (l *Logger) Warning(msg string) {
	l.Log(LogLevelWarning, msg)
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Logf(LogLevelWarning, format, args...)
}

func (l *Logger) Error(msg string) {
	l.Log(LogLevelError, msg)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Logf(LogLevelError, format, args...)
}

func (l *Logger) Critical(msg string) {
	l.Log(LogLevelCritical, msg)
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.Logf(LogLevelCritical, format, args...)
}
