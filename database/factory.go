package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DatabaseOptions 数据库配置选项
type DatabaseOptions struct {
	Name         string
	Dialector    gorm.Dialector
	GormConfig   *gorm.Config
	Logger       LoggerOptions
	MaxIdleConns int
	MaxOpenConns int
	MaxLifetime  time.Duration
	AutoMigrate  []any // 需要自动迁移的模型
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string, dialector gorm.Dialector) *DatabaseOptions {
	return &DatabaseOptions{
		Name:         name,
		Dialector:    dialector,
		GormConfig:   &gorm.Config{},
		Logger:       DefaultLoggerOptions(),
		MaxIdleConns: 10,
		MaxOpenConns: 100,
		MaxLifetime:  time.Hour,
		AutoMigrate:  make([]any, 0),
	}
}

// Validate 验证配置
func (o *DatabaseOptions) Validate() error {
	if o.Name == "" {
		return errors.New("database name is required")
	}
	if o.Dialector == nil {
		return errors.New("database dialector is required")
	}
	return nil
}

// Builder 数据库配置构建器
type Builder struct {
	logger  *logging.Logger
	configs []DatabaseOptions
	errors  []error
}

// NewBuilder 创建构建器，GORM 日志写入 l（nil 时使用默认 Logger）
func NewBuilder(l *logging.Logger) *Builder {
	if l == nil {
		l = logging.Default()
	}
	return &Builder{
		logger:  l,
		configs: make([]DatabaseOptions, 0),
		errors:  make([]error, 0),
	}
}

// Add 添加数据库配置
// name: 实例名称
// dialector: GORM 驱动 (e.g. sqlite.Open(dsn))
// configure: 可选的配置函数
func (b *Builder) Add(name string, dialector gorm.Dialector, configure func(*DatabaseOptions)) *Builder {
	for _, existing := range b.configs {
		if existing.Name == name {
			b.errors = append(b.errors, errors.Errorf("database '%s' already configured", name))
			return b
		}
	}

	opts := NewDefaultOptions(name, dialector)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, errors.Wrapf(err, "invalid configuration for '%s'", name))
		return b
	}

	b.configs = append(b.configs, *opts)
	return b
}

// Build 打开所有数据库并返回工厂；未显式设置 GORM Logger 的实例使用 Logger 适配器
func (b *Builder) Build() (*DatabaseFactory, error) {
	if len(b.errors) > 0 {
		return nil, errors.Errorf("database configuration errors: %v", b.errors)
	}

	factory := NewDatabaseFactory()
	for _, opts := range b.configs {
		if opts.GormConfig == nil {
			opts.GormConfig = &gorm.Config{}
		}
		if opts.GormConfig.Logger == nil {
			opts.GormConfig.Logger = NewLogger(b.logger, opts.Logger)
		}

		if err := factory.Register(opts); err != nil {
			factory.Close()
			return nil, errors.Wrapf(err, "failed to register database '%s'", opts.Name)
		}
		b.logger.Info(logging.AppendKeyValues("Database registered",
			"name", opts.Name, "dialector", opts.Dialector.Name()))
	}

	return factory, nil
}

// DatabaseFactory 数据库客户端工厂
type DatabaseFactory struct {
	dbs map[string]*gorm.DB
	mu  sync.RWMutex
}

// NewDatabaseFactory 创建数据库工厂
func NewDatabaseFactory() *DatabaseFactory {
	return &DatabaseFactory{
		dbs: make(map[string]*gorm.DB),
	}
}

// Register 注册数据库实例
func (f *DatabaseFactory) Register(opts DatabaseOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.dbs[opts.Name]; exists {
		return errors.Errorf("database '%s' already registered", opts.Name)
	}

	db, err := gorm.Open(opts.Dialector, opts.GormConfig)
	if err != nil {
		return errors.Wrapf(err, "failed to open database '%s'", opts.Name)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrapf(err, "failed to get sql.DB for '%s'", opts.Name)
	}

	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.MaxLifetime)

	if len(opts.AutoMigrate) > 0 {
		if err := db.AutoMigrate(opts.AutoMigrate...); err != nil {
			sqlDB.Close()
			return errors.Wrapf(err, "auto migrate failed for '%s'", opts.Name)
		}
	}

	f.dbs[opts.Name] = db
	return nil
}

// Get 获取数据库实例
func (f *DatabaseFactory) Get(name string) (*gorm.DB, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	db, ok := f.dbs[name]
	return db, ok
}

// Each 遍历所有数据库实例
func (f *DatabaseFactory) Each(fn func(name string, db *gorm.DB)) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for name, db := range f.dbs {
		fn(name, db)
	}
}

// Close 关闭所有数据库连接
func (f *DatabaseFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, db := range f.dbs {
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get sql.DB for '%s': %w", name, err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database '%s': %w", name, err))
		}
	}

	f.dbs = make(map[string]*gorm.DB)

	if len(errs) > 0 {
		return errors.Errorf("errors closing databases: %v", errs)
	}
	return nil
}
