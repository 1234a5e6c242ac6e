package logging

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
)

// ANSI 颜色
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
	ColorBold    = "\033[1m"
)

// LogLevel 日志级别（排名 + 显示名称 + 显示颜色）
// 级别之间只按 rank 比较，名称和颜色不参与过滤
type LogLevel struct {
	rank  int
	name  string
	color string
}

// 内置级别
var (
	LogLevelDebug    = LogLevel{rank: 10, name: "DEBUG", color: ColorCyan}
	LogLevelInfo     = LogLevel{rank: 20, name: "INFO", color: ColorGreen}
	LogLevelWarning  = LogLevel{rank: 30, name: "WARNING", color: ColorYellow}
	LogLevelError    = LogLevel{rank: 40, name: "ERROR", color: ColorRed}
	LogLevelCritical = LogLevel{rank: 50, name: "CRITICAL", color: ColorBold + ColorRed}
)

var builtinLevels = []LogLevel{
	LogLevelDebug,
	LogLevelInfo,
	LogLevelWarning,
	LogLevelError,
	LogLevelCritical,
}

// NewLevel 创建自定义级别
func NewLevel(rank int, name, color string) LogLevel {
	return LogLevel{rank: rank, name: name, color: color}
}

// Rank 返回级别排名
func (l LogLevel) Rank() int { return l.rank }

// Name 返回级别名称
func (l LogLevel) Name() string { return l.name }

// Color 返回级别颜色（ANSI 转义序列）
func (l LogLevel) Color() string { return l.color }

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	if l.name == "" {
		return "UNDEFINED"
	}
	return l.name
}

// Compare 按 rank 比较，返回 -1 / 0 / 1
func (l LogLevel) Compare(other LogLevel) int {
	switch {
	case l.rank < other.rank:
		return -1
	case l.rank > other.rank:
		return 1
	default:
		return 0
	}
}

// Enabled 判断该级别在最小级别 min 下是否输出
func (l LogLevel) Enabled(min LogLevel) bool {
	return l.rank >= min.rank
}

// foldName 大小写折叠；Caser 有状态，不能跨 goroutine 共享
func foldName(s string) string {
	return cases.Fold().String(s)
}

// BuiltinLevels 返回内置级别（按 rank 升序）
func BuiltinLevels() []LogLevel {
	out := make([]LogLevel, len(builtinLevels))
	copy(out, builtinLevels)
	return out
}

// ParseLevel 解析内置级别名称（大小写不敏感，WARN 视为 WARNING）或十进制 rank
func ParseLevel(s string) (LogLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LogLevel{}, errors.New("empty level")
	}
	key := foldName(s)
	if key == "warn" {
		key = "warning"
	}
	for _, lvl := range builtinLevels {
		if foldName(lvl.name) == key {
			return lvl, nil
		}
	}
	if rank, err := strconv.Atoi(s); err == nil {
		for _, lvl := range builtinLevels {
			if lvl.rank == rank {
				return lvl, nil
			}
		}
		return NewLevel(rank, s, ColorWhite), nil
	}
	return LogLevel{}, errors.Errorf("unknown level %q", s)
}

var colorNames = map[string]string{
	"reset":   ColorReset,
	"red":     ColorRed,
	"green":   ColorGreen,
	"yellow":  ColorYellow,
	"blue":    ColorBlue,
	"magenta": ColorMagenta,
	"cyan":    ColorCyan,
	"white":   ColorWhite,
	"bold":    ColorBold,
}

// ParseColor 将颜色名称（如 "bold green"、"Bold+Red"）转换为 ANSI 序列
// 以 ESC 开头的字符串原样返回
func ParseColor(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if strings.HasPrefix(s, "\033") {
		return s, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '+' || r == ',' || r == '|'
	})
	var b strings.Builder
	for _, part := range parts {
		code, ok := colorNames[foldName(part)]
		if !ok {
			return "", errors.Errorf("unknown color %q", part)
		}
		b.WriteString(code)
	}
	return b.String(), nil
}
