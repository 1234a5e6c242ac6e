package cron

import (
	"context"
	"sync"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Scheduler 定时任务调度器，任务的开始、结束和 panic 都记录到 Logger
type Scheduler struct {
	cron   *cron.Cron
	logger *logging.Logger
	mu     sync.RWMutex
	jobs   map[string]cron.EntryID // 任务名称到任务ID的映射
}

func newScheduler(c *cron.Cron, l *logging.Logger) *Scheduler {
	return &Scheduler{
		cron:   c,
		logger: l,
		jobs:   make(map[string]cron.EntryID),
	}
}

// AddJob 添加定时任务，同名任务会替换旧任务
func (s *Scheduler) AddJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(spec, s.wrap(name, job))
	if err != nil {
		return errors.Wrapf(err, "failed to add cron job '%s'", name)
	}

	if previous, exists := s.jobs[name]; exists {
		s.cron.Remove(previous)
	}
	s.jobs[name] = entryID
	s.logger.Infof("Cron job '%s' registered with spec '%s'", name, spec)
	return nil
}

// wrap 记录任务开始 / 完成；panic 被恢复并以 ERROR 记录
func (s *Scheduler) wrap(name string, job func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Cron job '%s' panicked: %v", name, r)
			}
		}()
		s.logger.Infof("Cron job '%s' started", name)
		job()
		s.logger.Infof("Cron job '%s' completed", name)
	}
}

// RemoveJob 移除定时任务
func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.logger.Infof("Cron job '%s' removed", name)
	}
}

// Run 立即同步执行一次指定任务
func (s *Scheduler) Run(name string) error {
	s.mu.RLock()
	entryID, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return errors.Errorf("cron job '%s' not found", name)
	}
	entry := s.cron.Entry(entryID)
	if !entry.Valid() {
		return errors.Errorf("cron job '%s' not found", name)
	}
	entry.WrappedJob.Run()
	return nil
}

// Jobs 返回已注册任务的名称
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Cron 返回底层 cron 实例
func (s *Scheduler) Cron() *cron.Cron {
	return s.cron
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.mu.RLock()
	count := len(s.jobs)
	s.mu.RUnlock()
	s.logger.Infof("Cron scheduler starting with %d jobs", count)
	s.cron.Start()
}

// Stop 停止调度，等待运行中的任务完成或 ctx 结束
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Cron scheduler stopping")

	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
