package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisClientOptions Redis 客户端配置选项
type RedisClientOptions struct {
	Name         string        // 客户端名称
	Addr         string        // Redis 服务器地址 (host:port)
	Password     string        // 密码（可选）
	DB           int           // 数据库编号
	DialTimeout  time.Duration // 连接超时时间
	ReadTimeout  time.Duration // 读取超时时间
	WriteTimeout time.Duration // 写入超时时间
	PoolSize     int           // 连接池大小
	MinIdleConns int           // 最小空闲连接数
	MaxRetries   int           // 最大重试次数
	LogCommands  bool          // 是否通过 Hook 记录每条命令
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string) *RedisClientOptions {
	return &RedisClientOptions{
		Name:         name,
		Addr:         "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	}
}

// Validate 验证配置
func (o *RedisClientOptions) Validate() error {
	if o.Name == "" {
		return errors.New("redis client name is required")
	}
	if o.Addr == "" {
		return errors.New("redis address is required")
	}
	if o.DB < 0 {
		return errors.New("redis database number must be non-negative")
	}
	if o.DialTimeout <= 0 {
		return errors.New("redis dial timeout must be positive")
	}
	return nil
}

// Builder Redis 客户端配置构建器
type Builder struct {
	logger  *logging.Logger
	configs []RedisClientOptions
	errors  []error
}

// NewBuilder 创建 Redis 构建器，l 为 nil 时使用默认 Logger
func NewBuilder(l *logging.Logger) *Builder {
	if l == nil {
		l = logging.Default()
	}
	return &Builder{
		logger:  l,
		configs: make([]RedisClientOptions, 0),
		errors:  make([]error, 0),
	}
}

// AddClient 添加一个 Redis 客户端配置
func (b *Builder) AddClient(name string, configure func(*RedisClientOptions)) *Builder {
	for _, existing := range b.configs {
		if existing.Name == name {
			b.errors = append(b.errors, errors.Errorf("redis client '%s' already configured", name))
			return b
		}
	}

	opts := NewDefaultOptions(name)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, errors.Wrapf(err, "invalid redis configuration for '%s'", name))
		return b
	}

	b.configs = append(b.configs, *opts)
	return b
}

// Build 连接所有客户端并返回工厂
func (b *Builder) Build() (*RedisClientFactory, error) {
	if len(b.errors) > 0 {
		return nil, errors.Errorf("redis configuration errors: %v", b.errors)
	}

	factory := NewRedisClientFactory(b.logger)
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			factory.Close()
			return nil, errors.Wrapf(err, "failed to register redis client '%s'", opts.Name)
		}
		b.logger.Info(logging.AppendKeyValues("redis client registered",
			"name", opts.Name, "addr", opts.Addr, "db", opts.DB))
	}

	return factory, nil
}

// RedisClientFactory Redis 客户端工厂
type RedisClientFactory struct {
	logger  *logging.Logger
	clients map[string]*redis.Client
	mu      sync.RWMutex
}

// NewRedisClientFactory 创建客户端工厂
func NewRedisClientFactory(l *logging.Logger) *RedisClientFactory {
	if l == nil {
		l = logging.Default()
	}
	return &RedisClientFactory{
		logger:  l,
		clients: make(map[string]*redis.Client),
	}
}

// Register 创建客户端并测试连接
func (f *RedisClientFactory) Register(opts RedisClientOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.clients[opts.Name]; exists {
		return errors.Errorf("redis client '%s' already registered", opts.Name)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
	})
	if opts.LogCommands {
		client.AddHook(NewHook(f.logger))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return errors.Wrap(err, "failed to connect to redis")
	}

	f.clients[opts.Name] = client
	return nil
}

// Get 获取指定名称的 Redis 客户端
func (f *RedisClientFactory) Get(name string) (*redis.Client, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	client, exists := f.clients[name]
	if !exists {
		return nil, errors.Errorf("redis client '%s' not found", name)
	}
	return client, nil
}

// Close 关闭所有 Redis 客户端
func (f *RedisClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, client := range f.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close client '%s': %w", name, err))
		}
	}

	f.clients = make(map[string]*redis.Client)

	if len(errs) > 0 {
		return errors.Errorf("errors closing redis clients: %v", errs)
	}
	return nil
}
