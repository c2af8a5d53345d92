package models

import "time"

// Event 合约事件，Attrs 为 JSON 编码的字段
type Event struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	MsgCid    string `gorm:"size:128;index" json:"msgCid"`
	Name      string `gorm:"size:64;index" json:"name"`
	Emitter   string `gorm:"size:128;index" json:"emitter"`
	Attrs     string `gorm:"type:text" json:"attrs"`
	Timestamp uint64 `json:"timestamp"`
	CreatedAt time.Time
}

func (Event) TableName() string { return "events" }
