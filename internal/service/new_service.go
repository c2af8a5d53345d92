package service

import (
	"legend-vesting/internal/config"
	"legend-vesting/internal/repository"
)

type NewService struct {
	Ex  *Executor
	Cfg *config.Config
}

// NewClient 打开数据库、解锁密钥库并创建执行器
func NewClient(cfg *config.Config) (*NewService, error) {
	store, err := repository.OpenStore(cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	// 未配置种子时密钥库保持锁定，只读命令仍可使用
	if cfg.Seed != "" {
		if err := store.InitEncryptionKey(cfg.Seed, cfg.KDF); err != nil {
			_ = store.Close()
			return nil, err
		}
	} else {
		log.Warn("NewClient: [Security] Seed not configured, keystore is locked")
	}

	return &NewService{Ex: NewExecutor(store, SystemClock{}), Cfg: cfg}, nil
}

// Close 关闭数据库连接
func (s *NewService) Close() error {
	return s.Ex.Store().Close()
}
