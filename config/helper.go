package config

// Load 加载并绑定指定节的配置到结构体 T，section 为空时绑定整个配置
func Load[T any](cfg Configuration, section string) (T, error) {
	var t T
	err := cfg.Bind(section, &t)
	return t, err
}

// LoadOrDefault 以 defaults 为基础绑定指定节；节不存在时直接返回 defaults
// 配置中未出现的字段保留 defaults 中的值
func LoadOrDefault[T any](cfg Configuration, section string, defaults T) (T, error) {
	if section != "" && !cfg.Exists(section) {
		return defaults, nil
	}
	t := defaults
	if err := cfg.Bind(section, &t); err != nil {
		return defaults, err
	}
	return t, nil
}
