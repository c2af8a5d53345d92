package config

import (
	"fmt"
	"os"
	"path/filepath"

	crypto2 "legend-vesting/internal/crypto"
	"legend-vesting/internal/repository"
	"legend-vesting/internal/schedule"
	"legend-vesting/internal/token"
)

// VestingConfig 全局配置实例（从 TOML 文件加载）
var VestingConfig struct {
	Database *Database // 数据库配置
	Security *Security // 安全配置
	Token    *Token    // 代币部署参数
	Vesting  *Vesting  // 归属计划参数
}

// Security 安全相关配置
type Security struct {
	Seed    string // 密钥库加密种子
	FastKDF bool   // 使用低成本密钥派生参数，仅限测试环境
}

// Database 数据库配置
type Database struct {
	Path string // SQLite 数据库路径
}

// Token 代币部署参数
type Token struct {
	Name   string
	Symbol string
	Supply uint64 // 发行量，单位 LEGEND
}

// Vesting 归属计划参数
type Vesting struct {
	StartOffset int64   // 未指定 --start 时，起始时间 = 当前时间 + StartOffset 秒
	Months      []int64 // 按计划编号覆盖默认时长（单位：30 天）
}

// Config 应用程序运行时配置
type Config struct {
	DBDSN       string
	Seed        string
	KDF         crypto2.KDFParams
	Token       token.Metadata
	Supply      uint64
	StartOffset int64
	Durations   []int64 // 秒
}

// LoadConfig 由已加载的 TOML 生成运行时配置，缺省项使用默认值
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBDSN:     repository.DefaultDBPath(),
		KDF:       crypto2.DefaultKDFParams(),
		Token:     token.DefaultMetadata(),
		Supply:    token.DefaultSupply,
		Durations: schedule.DefaultDurations(),
	}

	if d := VestingConfig.Database; d != nil && d.Path != "" {
		cfg.DBDSN = expandPath(d.Path)
	}

	if s := VestingConfig.Security; s != nil {
		cfg.Seed = s.Seed
		if s.FastKDF {
			cfg.KDF = crypto2.FastKDFParams()
		}
	}

	if t := VestingConfig.Token; t != nil {
		if t.Name != "" {
			cfg.Token.Name = t.Name
		}
		if t.Symbol != "" {
			cfg.Token.Symbol = t.Symbol
		}
		if t.Supply != 0 {
			cfg.Supply = t.Supply
		}
	}

	if v := VestingConfig.Vesting; v != nil {
		cfg.StartOffset = v.StartOffset
		if len(v.Months) > 0 {
			durations := make([]int64, len(v.Months))
			for i, m := range v.Months {
				if m < 0 {
					return nil, fmt.Errorf("vesting months[%d]: %w", i, schedule.ErrNegativeDuration)
				}
				durations[i] = schedule.Months(m)
			}
			cfg.Durations = durations
		}
	}

	return cfg, nil
}

// expandPath 展开路径中的 ~ 为用户主目录
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
