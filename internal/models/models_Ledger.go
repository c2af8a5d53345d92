package models

import "time"

// AccountNonce 账户下一条消息的 nonce
type AccountNonce struct {
	Address   string `gorm:"size:128;primaryKey" json:"address"`
	Nonce     uint64 `json:"nonce"`
	UpdatedAt time.Time
}

func (AccountNonce) TableName() string { return "account_nonces" }

// TokenState 代币合约状态，单行（ID=1）
type TokenState struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Address     string `gorm:"size:128" json:"address"`
	Owner       string `gorm:"size:128" json:"owner"`
	Name        string `gorm:"size:64" json:"name"`
	Symbol      string `gorm:"size:16" json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `gorm:"size:96" json:"totalSupply"`
	Paused      bool   `json:"paused"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TokenState) TableName() string { return "token_states" }

// TokenBalance 代币余额，金额以十进制字符串保存
type TokenBalance struct {
	Holder    string `gorm:"size:128;primaryKey" json:"holder"`
	Balance   string `gorm:"size:96" json:"balance"`
	UpdatedAt time.Time
}

func (TokenBalance) TableName() string { return "token_balances" }
