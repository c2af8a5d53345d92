package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	defaultConfigPath = "configs/config.toml" // 默认配置文件路径
	legacyConfigPath  = "config.toml"         // 当前目录下的配置文件
)

// Load 加载 TOML 配置文件
// path 为空时按默认顺序查找，找不到配置文件时保留默认值
func Load(path string) error {
	if path == "" {
		path = ResolveConfigPath()
	}
	if path == "" {
		return nil
	}
	_, err := toml.DecodeFile(path, &VestingConfig)
	return err
}

// ResolveConfigPath 按优先级查找配置文件
func ResolveConfigPath() string {
	if fileExists(defaultConfigPath) {
		return defaultConfigPath
	}
	if fileExists(legacyConfigPath) {
		return legacyConfigPath
	}
	return ""
}

// fileExists 检查文件是否存在且不是目录
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
