package cron

import (
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Builder Cron 配置构建器
type Builder struct {
	logger           *logging.Logger
	enableSeconds    bool
	enableCronLogger bool
	location         string
	jobs             []jobDefinition
}

// jobDefinition 任务定义
type jobDefinition struct {
	spec    string
	name    string
	handler func()
}

// NewBuilder 创建 Cron 构建器，任务日志写入 l（nil 时使用默认 Logger）
func NewBuilder(l *logging.Logger) *Builder {
	if l == nil {
		l = logging.Default()
	}
	return &Builder{
		logger:   l,
		location: "UTC",
		jobs:     make([]jobDefinition, 0),
	}
}

// WithSeconds 启用秒级精度
func (b *Builder) WithSeconds() *Builder {
	b.enableSeconds = true
	return b
}

// WithLocation 设置时区
func (b *Builder) WithLocation(location string) *Builder {
	b.location = location
	return b
}

// EnableCronLogger 启用 cron 库的内部调度日志
func (b *Builder) EnableCronLogger() *Builder {
	b.enableCronLogger = true
	return b
}

// AddJob 添加任务
// spec: cron 表达式，如 "0 */5 * * * *" (每5分钟，需 WithSeconds) 或 "@every 10s"
func (b *Builder) AddJob(spec, name string, handler func()) *Builder {
	b.jobs = append(b.jobs, jobDefinition{
		spec:    spec,
		name:    name,
		handler: handler,
	})
	return b
}

// Build 创建调度器并注册所有任务，任何一个表达式无效都会返回错误
func (b *Builder) Build() (*Scheduler, error) {
	location, err := time.LoadLocation(b.location)
	if err != nil {
		return nil, errors.Wrapf(err, "cron: invalid location %q", b.location)
	}

	adapter := NewLogger(b.logger)
	cronOpts := []cron.Option{
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(adapter)),
	}
	if b.enableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(adapter))
	}
	if b.enableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	s := newScheduler(cron.New(cronOpts...), b.logger)
	for _, job := range b.jobs {
		if job.handler == nil {
			return nil, errors.Errorf("cron: job '%s' has no handler", job.name)
		}
		if err := s.AddJob(job.spec, job.name, job.handler); err != nil {
			return nil, err
		}
	}
	return s, nil
}
