package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
)

// Builder Web 主机构建器（基于 Gin），默认挂载 Recovery 和请求日志中间件
type Builder struct {
	logger *logging.Logger
	port   int
	engine *gin.Engine
}

// NewBuilder 创建 Web 构建器，l 为 nil 时使用默认 Logger
func NewBuilder(l *logging.Logger) *Builder {
	if l == nil {
		l = logging.Default()
	}

	// 设置 Gin 为发布模式（默认）
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(Middleware(l), Recovery(l))

	return &Builder{
		logger: l,
		port:   8080,
		engine: engine,
	}
}

// UsePort 设置端口，0 表示随机端口
func (b *Builder) UsePort(port int) *Builder {
	b.port = port
	return b
}

// Use 使用全局中间件
func (b *Builder) Use(middleware ...gin.HandlerFunc) *Builder {
	b.engine.Use(middleware...)
	return b
}

// Get 注册 GET 路由
func (b *Builder) Get(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.GET(path, handlers...)
	return b
}

// Post 注册 POST 路由
func (b *Builder) Post(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.POST(path, handlers...)
	return b
}

// Group 创建路由组
func (b *Builder) Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return b.engine.Group(relativePath, handlers...)
}

// Engine 获取底层 Gin 引擎
func (b *Builder) Engine() *gin.Engine {
	return b.engine
}

// Build 构建 Web 主机
func (b *Builder) Build() *Host {
	return &Host{
		port:   b.port,
		engine: b.engine,
		logger: b.logger,
		server: &http.Server{Handler: b.engine},
	}
}

// Host Web 主机
type Host struct {
	port   int
	engine *gin.Engine
	server *http.Server
	logger *logging.Logger

	mu   sync.Mutex
	addr string
}

// Address 获取监听地址 (e.g., "[::]:50234")，仅在 Start 后有效
func (h *Host) Address() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

// Listen 监听端口
func (h *Host) Listen() (net.Listener, error) {
	addr := fmt.Sprintf(":%d", h.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "web: failed to listen on %s", addr)
	}

	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()

	h.logger.Infof("Web host started address=%s", ln.Addr())
	return ln, nil
}

// ShutdownTimeout ctx 取消后优雅停止的最长等待时间
const ShutdownTimeout = 5 * time.Second

// Start 启动 Web 主机，阻塞直到 ctx 取消、Stop 被调用或发生错误
// ctx 取消时在 ShutdownTimeout 内优雅停止
func (h *Host) Start(ctx context.Context) error {
	ln, err := h.Listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := h.Stop(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

// Serve 在已有的 listener 上提供服务
func (h *Host) Serve(ln net.Listener) error {
	if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		h.logger.Errorf("Web host error: %v", err)
		return err
	}
	return nil
}

// Stop 停止 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	h.logger.Info("Stopping web host")

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Errorf("Failed to shutdown web host gracefully: %v", err)
		return err
	}

	h.logger.Info("Web host stopped")
	return nil
}
