package logging

import (
	"fmt"
	"strings"
)

// NewLogger 创建一个默认的控制台 Logger（便于测试使用）
func NewLogger() *Logger {
	return NewLoggingBuilder().AddConsole().Build()
}

// AppendKeyValues 将 key/value 对以 " key=value" 形式追加到消息后面
// 供第三方库的日志适配器使用；奇数个参数时最后一个值以 "!BADKEY" 为键
func AppendKeyValues(msg string, keysAndValues ...any) string {
	if len(keysAndValues) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteByte(' ')
		if i+1 >= len(keysAndValues) {
			fmt.Fprintf(&b, "!BADKEY=%v", keysAndValues[i])
			break
		}
		fmt.Fprintf(&b, "%v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
