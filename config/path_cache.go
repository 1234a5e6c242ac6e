package config

import (
	"strings"
	"sync"
)

// PathCache 缓存配置路径解析结果
type PathCache struct {
	cache sync.Map // map[string][]string
}

// GetPathSegments 获取路径片段（支持 : 和 . 作为分隔符，忽略空片段）
// 返回的切片被缓存共享，调用方不得修改
func (c *PathCache) GetPathSegments(path string) []string {
	if v, ok := c.cache.Load(path); ok {
		return v.([]string)
	}

	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == ':' || r == '.'
	})
	v, _ := c.cache.LoadOrStore(path, parts)
	return v.([]string)
}

// globalPathCache 全局路径缓存实例
var globalPathCache = &PathCache{}
