package logging

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gocrud/easylog/config"
	"github.com/pkg/errors"
)

// DefaultSection 日志配置默认所在的配置节
const DefaultSection = "logging"

// LevelName 级别名称或 rank；配置中既可以写 "info" 也可以写 20
type LevelName string

// UnmarshalJSON 同时接受字符串和数字
func (n *LevelName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = LevelName(s)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return errors.Wrapf(err, "level must be a name or a rank, got %s", data)
	}
	*n = LevelName(number.String())
	return nil
}

// FileSettings 文件输出配置
type FileSettings struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// TimestampSettings 时间占位符配置
type TimestampSettings struct {
	Hour   bool `json:"hour"`
	Minute bool `json:"minute"`
	Second bool `json:"second"`
}

// LevelSettings 自定义级别配置
type LevelSettings struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Settings 可从配置文件 / 环境变量绑定的日志配置
//
//	logging:
//	  template: "[%d %Th:%Tm:%Ts] [%l] %m"
//	  level: info
//	  console: true
//	  color: auto
//	  file:
//	    enabled: true
//	    path: app.log
//	  timestamps: { hour: true, minute: true, second: true }
//	  date: true
//	  levels:
//	    - { rank: 25, name: SUCCESS, color: "bold green" }
type Settings struct {
	Template       string            `json:"template"`
	Level          LevelName         `json:"level"`
	Console        bool              `json:"console"`
	Color          string            `json:"color"`
	MaxMessageSize int               `json:"max_message_size"`
	File           FileSettings      `json:"file"`
	Timestamps     TimestampSettings `json:"timestamps"`
	Date           bool              `json:"date"`
	Levels         []LevelSettings   `json:"levels"`
}

// DefaultSettings 与 DefaultConfig 一致的默认值
func DefaultSettings() Settings {
	return Settings{
		Template:       DefaultTemplate,
		Level:          LevelName(LogLevelDebug.name),
		Console:        true,
		Color:          "always",
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

// LoadSettings 从配置节读取日志配置，section 为空时使用 "logging"
// 配置节不存在时返回默认值
func LoadSettings(cfg config.Configuration, section string) (Settings, error) {
	if section == "" {
		section = DefaultSection
	}
	s, err := config.LoadOrDefault(cfg, section, DefaultSettings())
	if err != nil {
		return Settings{}, errors.Wrapf(err, "failed to load logging settings from %q", section)
	}
	return s, nil
}

// Builder 把配置转换为 LoggingBuilder，调用方可以继续追加选项后再 Build
func (s Settings) Builder() (*LoggingBuilder, error) {
	b := NewLoggingBuilder().
		UseTemplate(s.Template).
		UseTimeStamps(s.Timestamps.Hour, s.Timestamps.Minute, s.Timestamps.Second).
		UseDateStamp(s.Date).
		UseMaxMessageSize(s.MaxMessageSize)

	// 先登记自定义级别，最小级别可以引用它们的名称
	registry := NewLevelRegistry()
	for _, lvl := range s.Levels {
		if strings.TrimSpace(lvl.Name) == "" {
			return nil, errors.Errorf("custom level with rank %d has no name", lvl.Rank)
		}
		color, err := ParseColor(lvl.Color)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid color for level %s", lvl.Name)
		}
		registry.Register(lvl.Rank, lvl.Name, color)
		b.AddLevel(lvl.Rank, lvl.Name, color)
	}

	if s.Level != "" {
		min, err := registry.Resolve(string(s.Level))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid logging level %q", s.Level)
		}
		b.SetMinimumLevel(min)
	}

	if s.Console {
		mode, err := ParseColorMode(s.Color)
		if err != nil {
			return nil, err
		}
		b.AddConsole(ConsoleLoggerOptions{Color: mode})
	}

	if s.File.Enabled {
		if s.File.Path == "" {
			return nil, errors.New("file output enabled without a path")
		}
		b.AddFile(s.File.Path)
	}

	return b, nil
}

// NewFromConfiguration 按配置节创建 Logger
func NewFromConfiguration(cfg config.Configuration, section string) (*Logger, error) {
	s, err := LoadSettings(cfg, section)
	if err != nil {
		return nil, err
	}
	b, err := s.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}
