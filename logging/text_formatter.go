package logging

import (
	"bytes"
	"strconv"
	"strings"
)

// DefaultTemplate 默认模板
const DefaultTemplate = "[%l] %m"

// QuickTemplate QuickInit 使用的模板（日期 + 时间 + 级别 + 消息）
const QuickTemplate = "[%d %Th:%Tm:%Ts] [%l] %m"

// TemplateFormatter 模板格式化器
//
// 支持的占位符：
//
//	%l  级别名称
//	%m  消息
//	%Th %Tm %Ts  两位小时 / 分钟 / 秒（分别受 Stamps 开关控制）
//	%d  YYYY-MM-DD 日期（受 Stamps.Date 控制）
//
// 未识别或未启用的占位符原样保留。
type TemplateFormatter struct {
	Template string
	Stamps   Stamps
	// NoColor 为 true 时控制台输出不加颜色
	NoColor bool
}

// NewTemplateFormatter 创建模板格式化器
func NewTemplateFormatter(template string) *TemplateFormatter {
	return &TemplateFormatter{Template: template}
}

// Format 实现 Formatter
func (f *TemplateFormatter) Format(entry *LogEntry, target Target) string {
	if f.NoColor && target == TargetConsole {
		return Render(f.Template, entry, f.Stamps, TargetPlain)
	}
	return Render(f.Template, entry, f.Stamps, target)
}

// Expand 仅展开占位符，不加颜色和换行
func (f *TemplateFormatter) Expand(entry *LogEntry) string {
	return Render(f.Template, entry, f.Stamps, TargetPlain)
}

// Render 渲染一行日志
// 单次从左到右扫描，替换值直接写出，不会再次参与占位符匹配
func Render(template string, entry *LogEntry, stamps Stamps, target Target) string {
	buffer := GlobalBufferPool.Get()
	defer GlobalBufferPool.Put(buffer)

	if target == TargetConsole {
		buffer.WriteString(entry.Level.color)
	}

	expand(buffer, template, entry, stamps)

	switch target {
	case TargetConsole:
		buffer.WriteString(ColorReset)
	case TargetFile:
		buffer.WriteByte('\n')
	}

	return buffer.String()
}

func expand(buffer *bytes.Buffer, template string, entry *LogEntry, stamps Stamps) {
	for {
		i := strings.IndexByte(template, '%')
		if i < 0 {
			buffer.WriteString(template)
			return
		}
		buffer.WriteString(template[:i])
		rest := template[i:]

		n := placeholder(buffer, rest, entry, stamps)
		if n == 0 {
			// 非占位符：输出 '%' 本身，继续扫描
			buffer.WriteByte('%')
			n = 1
		}
		template = rest[n:]
	}
}

// placeholder 尝试在 s 开头匹配占位符，返回消耗的字节数（0 表示未匹配）
func placeholder(buffer *bytes.Buffer, s string, entry *LogEntry, stamps Stamps) int {
	switch {
	case strings.HasPrefix(s, "%l"):
		buffer.WriteString(entry.Level.name)
		return 2
	case strings.HasPrefix(s, "%m"):
		buffer.WriteString(entry.Message)
		return 2
	case strings.HasPrefix(s, "%Th"):
		if !stamps.Hour {
			return 0
		}
		writeTwoDigits(buffer, entry.Time.Hour())
		return 3
	case strings.HasPrefix(s, "%Tm"):
		if !stamps.Minute {
			return 0
		}
		writeTwoDigits(buffer, entry.Time.Minute())
		return 3
	case strings.HasPrefix(s, "%Ts"):
		if !stamps.Second {
			return 0
		}
		writeTwoDigits(buffer, entry.Time.Second())
		return 3
	case strings.HasPrefix(s, "%d"):
		if !stamps.Date {
			return 0
		}
		buffer.WriteString(entry.Time.Format("2006-01-02"))
		return 2
	}
	return 0
}

func writeTwoDigits(buffer *bytes.Buffer, v int) {
	if v < 10 {
		buffer.WriteByte('0')
	}
	buffer.WriteString(strconv.Itoa(v))
}
