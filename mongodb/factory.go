package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoOptions MongoDB 客户端配置选项
type MongoOptions struct {
	Name        string
	Uri         string
	Username    string
	Password    string
	MaxPoolSize uint64
	MinPoolSize uint64
	Timeout     time.Duration
	// LogLevel 命令日志级别，0 表示不记录驱动日志
	LogLevel options.LogLevel
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string, uri string) *MongoOptions {
	return &MongoOptions{
		Name:        name,
		Uri:         uri,
		MaxPoolSize: 100,
		MinPoolSize: 5,
		Timeout:     10 * time.Second,
		LogLevel:    options.LogLevelInfo,
	}
}

// Validate 验证配置
func (o *MongoOptions) Validate() error {
	if o.Name == "" {
		return errors.New("mongo client name is required")
	}
	if o.Uri == "" {
		return errors.New("mongo uri is required")
	}
	return nil
}

// Builder MongoDB 客户端构建器
type Builder struct {
	logger  *logging.Logger
	configs []MongoOptions
	errors  []error
}

// NewBuilder 创建构建器，驱动日志写入 l（nil 时使用默认 Logger）
func NewBuilder(l *logging.Logger) *Builder {
	if l == nil {
		l = logging.Default()
	}
	return &Builder{
		logger:  l,
		configs: make([]MongoOptions, 0),
		errors:  make([]error, 0),
	}
}

// Add 添加客户端配置
func (b *Builder) Add(name, uri string, configure func(*MongoOptions)) *Builder {
	for _, existing := range b.configs {
		if existing.Name == name {
			b.errors = append(b.errors, errors.Errorf("mongo client '%s' already configured", name))
			return b
		}
	}

	opts := NewDefaultOptions(name, uri)
	if configure != nil {
		configure(opts)
	}
	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, errors.Wrapf(err, "invalid mongo configuration for '%s'", name))
		return b
	}

	b.configs = append(b.configs, *opts)
	return b
}

// Build 创建所有客户端（驱动在首次操作时才建立连接）
func (b *Builder) Build() (*MongoFactory, error) {
	if len(b.errors) > 0 {
		return nil, errors.Errorf("mongo configuration errors: %v", b.errors)
	}

	factory := NewMongoFactory(b.logger)
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			factory.Close()
			return nil, err
		}
		b.logger.Info(logging.AppendKeyValues("mongo client registered", "name", opts.Name))
	}
	return factory, nil
}

// MongoFactory MongoDB 客户端工厂
type MongoFactory struct {
	logger  *logging.Logger
	clients map[string]*mongo.Client
	mu      sync.RWMutex
}

// NewMongoFactory 创建客户端工厂
func NewMongoFactory(l *logging.Logger) *MongoFactory {
	if l == nil {
		l = logging.Default()
	}
	return &MongoFactory{
		logger:  l,
		clients: make(map[string]*mongo.Client),
	}
}

// Register 注册 MongoDB 客户端
func (f *MongoFactory) Register(opts MongoOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.clients[opts.Name]; exists {
		return errors.Errorf("mongo client '%s' already registered", opts.Name)
	}

	clientOpts := options.Client().ApplyURI(opts.Uri)
	if opts.Username != "" || opts.Password != "" {
		clientOpts.SetAuth(options.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.Timeout > 0 {
		clientOpts.SetConnectTimeout(opts.Timeout)
		clientOpts.SetServerSelectionTimeout(opts.Timeout)
	}
	if opts.LogLevel > 0 {
		clientOpts.SetLoggerOptions(LoggerOptions(f.logger, opts.LogLevel))
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return errors.Wrapf(err, "failed to create mongo client '%s'", opts.Name)
	}

	f.clients[opts.Name] = client
	return nil
}

// Get 获取指定名称的客户端
func (f *MongoFactory) Get(name string) (*mongo.Client, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	client, exists := f.clients[name]
	if !exists {
		return nil, errors.Errorf("mongo client '%s' not found", name)
	}
	return client, nil
}

// Each 遍历所有客户端
func (f *MongoFactory) Each(fn func(name string, client *mongo.Client)) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for name, client := range f.clients {
		fn(name, client)
	}
}

// Close 关闭所有客户端
func (f *MongoFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for name, client := range f.clients {
		if err := client.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close client '%s': %w", name, err))
		}
	}

	f.clients = make(map[string]*mongo.Client)

	if len(errs) > 0 {
		return errors.Errorf("errors closing mongo clients: %v", errs)
	}
	return nil
}
