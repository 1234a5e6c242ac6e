package logging

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// DefaultMaxMessageSize 格式化消息的默认上限（字节）
const DefaultMaxMessageSize = 4096

// FormatFailedMessage 格式化失败时替代消息的诊断文本
const FormatFailedMessage = "ERROR: String formatting failed"

var (
	// ErrFormatOverflow 格式化结果超过上限
	ErrFormatOverflow = errors.New("formatted message exceeds size limit")
	// ErrBadFormat 格式串与参数不匹配
	ErrBadFormat = errors.New("bad format")
)

// Sprintf 按 printf 语义格式化，超过 limit 字节或格式错误时直接返回错误，不做截断
// limit <= 0 表示不限制长度
func Sprintf(limit int, format string, args ...any) (string, error) {
	if err := checkVerbs(format, args); err != nil {
		return "", errors.Wrapf(err, "format %q", format)
	}
	out := fmt.Sprintf(format, args...)
	if limit > 0 && len(out) > limit {
		return "", errors.Wrapf(ErrFormatOverflow, "%d bytes, limit %d", len(out), limit)
	}
	return out, nil
}

// Format 按 printf 语义格式化，失败时返回 FormatFailedMessage
func Format(format string, args ...any) string {
	out, err := Sprintf(DefaultMaxMessageSize, format, args...)
	if err != nil {
		return FormatFailedMessage
	}
	return out
}

// verbScanner 按 fmt 的解析规则遍历格式串中的动词，并跟踪参数下标
type verbScanner struct {
	format    string
	pos       int
	args      []any
	argNum    int
	reordered bool
}

// checkVerbs 在渲染前找出 fmt 会以 "%!" 标记的错误：
// 缺少参数、多余参数、非法下标、缺少动词、宽度/精度不是整数、动词与参数类型不匹配
func checkVerbs(format string, args []any) error {
	s := &verbScanner{format: format, args: args}
	for s.pos < len(format) {
		if format[s.pos] != '%' {
			s.pos++
			continue
		}
		s.pos++
		if err := s.directive(); err != nil {
			return err
		}
	}
	if !s.reordered && s.argNum < len(args) {
		return errors.Wrapf(ErrBadFormat, "%d extra arguments", len(args)-s.argNum)
	}
	return nil
}

func (s *verbScanner) directive() error {
	var spec strings.Builder
	spec.WriteByte('%')

	for s.pos < len(s.format) && strings.IndexByte("#0+- ", s.format[s.pos]) >= 0 {
		spec.WriteByte(s.format[s.pos])
		s.pos++
	}

	if err := s.number(&spec, "width"); err != nil {
		return err
	}
	if s.pos < len(s.format) && s.format[s.pos] == '.' {
		spec.WriteByte('.')
		s.pos++
		if err := s.number(&spec, "precision"); err != nil {
			return err
		}
	}

	if err := s.argIndex(); err != nil {
		return err
	}
	if s.pos >= len(s.format) {
		return errors.Wrap(ErrBadFormat, "missing verb at end of format")
	}
	verb, size := utf8.DecodeRuneInString(s.format[s.pos:])
	s.pos += size
	if verb == '%' {
		return nil
	}
	if s.argNum >= len(s.args) {
		return errors.Wrapf(ErrBadFormat, "missing argument for %%%c", verb)
	}
	arg := s.args[s.argNum]
	s.argNum++

	spec.WriteRune(verb)
	marker := "%!" + string(verb) + "("
	if strings.Count(fmt.Sprintf(spec.String(), arg), marker) > strings.Count(fmt.Sprint(arg), marker) {
		return errors.Wrapf(ErrBadFormat, "%%%c does not accept %T", verb, arg)
	}
	return nil
}

// number 解析宽度或精度，'*' 从参数中取整数
func (s *verbScanner) number(spec *strings.Builder, what string) error {
	if err := s.argIndex(); err != nil {
		return err
	}
	if s.pos < len(s.format) && s.format[s.pos] == '*' {
		s.pos++
		if s.argNum >= len(s.args) {
			return errors.Wrapf(ErrBadFormat, "missing argument for * %s", what)
		}
		n, ok := intArg(s.args[s.argNum])
		if !ok {
			return errors.Wrapf(ErrBadFormat, "%s argument is %T, not an int", what, s.args[s.argNum])
		}
		s.argNum++
		spec.WriteString(strconv.Itoa(n))
		return nil
	}
	for s.pos < len(s.format) && s.format[s.pos] >= '0' && s.format[s.pos] <= '9' {
		spec.WriteByte(s.format[s.pos])
		s.pos++
	}
	return nil
}

// argIndex 解析 "[n]" 显式参数下标
func (s *verbScanner) argIndex() error {
	if s.pos >= len(s.format) || s.format[s.pos] != '[' {
		return nil
	}
	s.reordered = true
	end := strings.IndexByte(s.format[s.pos:], ']')
	if end < 0 {
		return errors.Wrap(ErrBadFormat, "unterminated argument index")
	}
	n, err := strconv.Atoi(s.format[s.pos+1 : s.pos+end])
	s.pos += end + 1
	if err != nil || n < 1 || n > len(s.args) {
		return errors.Wrapf(ErrBadFormat, "bad argument index %s", s.format[s.pos-end-1:s.pos])
	}
	s.argNum = n - 1
	return nil
}

func intArg(arg any) (int, bool) {
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n > 1e6 || n < -1e6 {
			return 0, false
		}
		return int(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := v.Uint()
		if n > 1e6 {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
