package models

import "time"

// ScheduleEntry 归属计划表的一项，ID 即计划编号
type ScheduleEntry struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	DurationSeconds int64  `json:"durationSeconds"`
}

func (ScheduleEntry) TableName() string { return "schedule_entries" }

// FactoryState 钱包工厂状态，单行（ID=1）
type FactoryState struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Address   string `gorm:"size:128" json:"address"`
	Owner     string `gorm:"size:128" json:"owner"`
	Start     uint64 `json:"start"`
	Created   uint64 `json:"created"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FactoryState) TableName() string { return "factory_states" }

// VestingWallet 工厂创建的归属钱包，(beneficiary, schedule_id) 唯一
type VestingWallet struct {
	Address     string `gorm:"size:128;primaryKey" json:"address"`
	Seq         uint64 `gorm:"index" json:"seq"`
	Beneficiary string `gorm:"size:128;uniqueIndex:idx_beneficiary_schedule" json:"beneficiary"`
	ScheduleID  uint64 `gorm:"uniqueIndex:idx_beneficiary_schedule" json:"scheduleId"`
	Start       uint64 `json:"start"`
	Duration    uint64 `json:"duration"`
	Released    string `gorm:"size:96" json:"released"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (VestingWallet) TableName() string { return "vesting_wallets" }
