package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// ColorMode 控制台颜色模式
type ColorMode int

const (
	// ColorAlways 总是输出颜色
	ColorAlways ColorMode = iota
	// ColorNever 不输出颜色
	ColorNever
	// ColorAuto 仅当输出是终端时输出颜色
	ColorAuto
)

// ParseColorMode 解析 always / never / auto
func ParseColorMode(s string) (ColorMode, error) {
	switch foldName(s) {
	case "", "always", "true":
		return ColorAlways, nil
	case "never", "false", "none":
		return ColorNever, nil
	case "auto":
		return ColorAuto, nil
	}
	return ColorAlways, errors.Errorf("unknown color mode %q", s)
}

// ConsoleSink 控制台输出
type ConsoleSink struct {
	Output io.Writer
	Color  ColorMode
}

// NewConsoleSink 创建控制台输出，output 为 nil 时使用 os.Stdout
func NewConsoleSink(output io.Writer, mode ColorMode) *ConsoleSink {
	if output == nil {
		output = os.Stdout
	}
	return &ConsoleSink{Output: output, Color: mode}
}

// Colored 判断本次输出是否带颜色
func (s *ConsoleSink) Colored() bool {
	switch s.Color {
	case ColorNever:
		return false
	case ColorAuto:
		f, ok := s.Output.(interface{ Fd() uintptr })
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	default:
		return true
	}
}

// Write 写出一行；写入错误被忽略
func (s *ConsoleSink) Write(line string) {
	buffer := GlobalBufferPool.Get()
	buffer.WriteString(line)
	buffer.WriteByte('\n')
	_, _ = s.Output.Write(buffer.Bytes())
	GlobalBufferPool.Put(buffer)
}

// FileSink 文件输出
// 每次写入都以追加模式打开并立即关闭，不跨调用持有句柄
type FileSink struct {
	Path string
	Perm os.FileMode
}

// NewFileSink 创建文件输出
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path, Perm: 0644}
}

// Append 追加一行（line 应已包含换行）
func (s *FileSink) Append(line string) error {
	perm := s.Perm
	if perm == 0 {
		perm = 0644
	}
	file, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perm)
	if err != nil {
		return errors.Wrap(err, "could not open file")
	}
	if _, err := io.WriteString(file, line); err != nil {
		file.Close()
		return errors.Wrap(err, "could not write file")
	}
	return errors.Wrap(file.Close(), "could not close file")
}
