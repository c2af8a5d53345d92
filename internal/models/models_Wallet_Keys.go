package models

import (
	"time"
)

// WalletKey 账户私钥记录
// EncryptedKey 为 AES-GCM 密文（nonce 前缀），附加数据为地址字节，
// 密文被挪到其他地址的行时无法解密
type WalletKey struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Address      string    `gorm:"size:128;uniqueIndex" json:"address"`
	KeyType      string    `gorm:"size:16;index" json:"keyType"` // secp256k1 或 bls
	EncryptedKey []byte    `gorm:"type:blob;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (WalletKey) TableName() string { return "wallet_keys" }
