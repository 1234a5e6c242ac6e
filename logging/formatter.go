package logging

import (
	"time"
)

// Formatter 日志格式化接口
type Formatter interface {
	// Format 按输出目标渲染日志条目
	Format(entry *LogEntry, target Target) string
}

// LogEntry 日志条目
type LogEntry struct {
	Time    time.Time
	Level   LogLevel
	Message string
}

// Target 渲染目标
type Target int

const (
	// TargetConsole 控制台：带颜色，不带换行
	TargetConsole Target = iota
	// TargetFile 文件：无颜色，以换行结尾
	TargetFile
	// TargetPlain 仅展开模板
	TargetPlain
)

// Stamps 时间占位符开关
type Stamps struct {
	Hour   bool
	Minute bool
	Second bool
	Date   bool
}

// AllStamps 打开全部时间占位符
func AllStamps() Stamps {
	return Stamps{Hour: true, Minute: true, Second: true, Date: true}
}
