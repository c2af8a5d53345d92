package repository

import (
	"errors"
	"os"
	"path/filepath"

	logging "github.com/ipfs/go-log/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	crypto2 "legend-vesting/internal/crypto"
	"legend-vesting/internal/models"
)

var log = logging.Logger("repository")

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrLocked         = errors.New("keystore is locked: encryption key not initialized")
	ErrNotInitialized = errors.New("vesting state not initialized, run init first")
)

// Store 数据存储结构
// 封装 GORM 数据库连接和密钥库加密密钥
type Store struct {
	DB *gorm.DB

	encryptionKey []byte
}

// dsnOptions 写事务以 BEGIN IMMEDIATE 开始，多个进程共用同一数据库时
// 后来者等待写锁（最多 busyTimeout），而不是读到即将被覆盖的旧状态
const dsnOptions = "?_txlock=immediate&_busy_timeout=10000"

// DefaultDBPath 默认数据库路径 ~/.legend-vesting/vesting.db
func DefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "vesting.db"
	}
	return filepath.Join(homeDir, ".legend-vesting", "vesting.db")
}

// OpenStore 打开 SQLite 数据库并迁移所有数据表
func OpenStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Errorf("OpenStore: failed to create directory %s: %v", dir, err)
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dbPath+dsnOptions), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Errorf("OpenStore: failed to open database: %v", err)
		return nil, err
	}

	if err = db.AutoMigrate(
		&models.WalletKey{},
		&models.AccountNonce{},
		&models.TokenState{},
		&models.TokenBalance{},
		&models.ScheduleEntry{},
		&models.FactoryState{},
		&models.VestingWallet{},
		&models.Event{},
	); err != nil {
		log.Errorf("OpenStore: auto migration failed: %v", err)
		return nil, err
	}

	log.Debugf("OpenStore: SQLite database opened at %s", dbPath)
	return &Store{DB: db}, nil
}

// InitEncryptionKey 从种子派生密钥库加密密钥（Scrypt + Argon2id）
func (s *Store) InitEncryptionKey(seed string, params crypto2.KDFParams) error {
	key, err := crypto2.DeriveKey([]byte(seed), params)
	if err != nil {
		log.Errorf("InitEncryptionKey: %v", err)
		return err
	}
	s.encryptionKey = key
	return nil
}

// Update 在一个写事务中执行 fn，fn 通过 tx 读写数据库
// fn 返回错误时事务回滚；事务开始即持有写锁，跨进程的调用因此串行执行
func (s *Store) Update(fn func(tx *Store) error) error {
	return s.DB.Transaction(func(db *gorm.DB) error {
		return fn(&Store{DB: db, encryptionKey: s.encryptionKey})
	})
}

// Close 关闭底层数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
