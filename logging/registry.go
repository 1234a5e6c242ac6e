package logging

import (
	"sort"
	"sync"
)

// LevelRegistry 自定义级别注册表
// 内置级别不存放在注册表中，也不会被 Register 覆盖
type LevelRegistry struct {
	levels map[int]LogLevel
	mu     sync.RWMutex

	// onConflict 在同一 rank 上的自定义级别被替换时调用
	onConflict func(previous, next LogLevel)
}

// NewLevelRegistry 创建级别注册表
func NewLevelRegistry() *LevelRegistry {
	return &LevelRegistry{
		levels: make(map[int]LogLevel),
	}
}

// Register 注册自定义级别并返回该级别
// rank 不做范围限制；同一 rank 重复注册时新级别替换旧级别，并触发冲突回调
func (r *LevelRegistry) Register(rank int, name, color string) LogLevel {
	level := NewLevel(rank, name, color)

	r.mu.Lock()
	previous, exists := r.levels[rank]
	r.levels[rank] = level
	hook := r.onConflict
	r.mu.Unlock()

	if exists && hook != nil && previous != level {
		hook(previous, level)
	}
	return level
}

// SetConflictHandler 设置 rank 冲突回调
func (r *LevelRegistry) SetConflictHandler(fn func(previous, next LogLevel)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConflict = fn
}

// Lookup 按 rank 查找级别，自定义级别优先于内置级别
func (r *LevelRegistry) Lookup(rank int) (LogLevel, bool) {
	r.mu.RLock()
	level, ok := r.levels[rank]
	r.mu.RUnlock()
	if ok {
		return level, true
	}
	for _, lvl := range builtinLevels {
		if lvl.rank == rank {
			return lvl, true
		}
	}
	return LogLevel{}, false
}

// LookupName 按名称查找级别（大小写不敏感），自定义级别优先
func (r *LevelRegistry) LookupName(name string) (LogLevel, bool) {
	key := foldName(name)

	r.mu.RLock()
	for _, lvl := range r.levels {
		if foldName(lvl.name) == key {
			r.mu.RUnlock()
			return lvl, true
		}
	}
	r.mu.RUnlock()

	for _, lvl := range builtinLevels {
		if foldName(lvl.name) == key {
			return lvl, true
		}
	}
	return LogLevel{}, false
}

// Resolve 解析级别名称或 rank，先查注册表，再回退到 ParseLevel
func (r *LevelRegistry) Resolve(s string) (LogLevel, error) {
	if lvl, ok := r.LookupName(s); ok {
		return lvl, nil
	}
	lvl, err := ParseLevel(s)
	if err != nil {
		return LogLevel{}, err
	}
	if custom, ok := r.Lookup(lvl.rank); ok {
		return custom, nil
	}
	return lvl, nil
}

// Levels 返回所有已知级别（内置 + 自定义），按 rank 升序
func (r *LevelRegistry) Levels() []LogLevel {
	r.mu.RLock()
	out := make([]LogLevel, 0, len(builtinLevels)+len(r.levels))
	for _, lvl := range r.levels {
		out = append(out, lvl)
	}
	r.mu.RUnlock()

	out = append(out, builtinLevels...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].rank < out[j].rank
	})
	return out
}

// Len 返回自定义级别数量
func (r *LevelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.levels)
}
