package service

import (
	"bytes"
	"time"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-cid"

	"legend-vesting/internal/events"
)

// Clock 提供执行消息时的区块时间（unix 秒）
type Clock interface {
	Now() uint64
}

// SystemClock 使用本机时间
type SystemClock struct{}

func (SystemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// FixedClock 固定时间，用于查询某一时刻的归属情况
type FixedClock uint64

func (c FixedClock) Now() uint64 { return uint64(c) }

// Receipt 消息执行结果
type Receipt struct {
	Message   cid.Cid
	Timestamp uint64
	// Return CBOR 编码的返回值，无返回值时为空
	Return []byte
	Events []events.Event
}

// ReturnAddress 解码地址返回值（CreateWallet）
func (r *Receipt) ReturnAddress() (address.Address, error) {
	var a address.Address
	if err := a.UnmarshalCBOR(bytes.NewReader(r.Return)); err != nil {
		return address.Undef, err
	}
	return a, nil
}

// ReturnAmount 解码金额返回值（Release）
func (r *Receipt) ReturnAmount() (abi.TokenAmount, error) {
	var amt abi.TokenAmount
	if err := amt.UnmarshalCBOR(bytes.NewReader(r.Return)); err != nil {
		return abi.TokenAmount{}, err
	}
	return amt, nil
}
