package events

import (
	"strconv"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("events")

// Event is a record emitted by a contract once an operation succeeds.
type Event interface {
	// Name 事件名称，例如 ERC20Released
	Name() string
	// Emitter 发出事件的合约地址
	Emitter() address.Address
	// Attrs 事件字段的字符串表示，用于日志和持久化
	Attrs() map[string]string
}

// Emitter 事件接收者
type Emitter interface {
	Emit(ev Event)
}

// Log 按发出顺序收集事件
// 消息成功后由存储层 Drain 取出并持久化
type Log struct {
	events []Event
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Emit(ev Event) {
	log.Debugf("Emit: %s from %s %v", ev.Name(), ev.Emitter(), ev.Attrs())
	l.events = append(l.events, ev)
}

// Events 返回已收集事件的副本
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Drain 取出并清空所有事件
func (l *Log) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

type discard struct{}

func (discard) Emit(Event) {}

// Discard drops every event.
var Discard Emitter = discard{}

// ERC20Released is emitted by a vesting wallet for every non-zero release.
type ERC20Released struct {
	Wallet address.Address
	Token  address.Address
	Amount abi.TokenAmount
}

func (e ERC20Released) Name() string             { return "ERC20Released" }
func (e ERC20Released) Emitter() address.Address { return e.Wallet }
func (e ERC20Released) Attrs() map[string]string {
	return map[string]string{
		"token":  e.Token.String(),
		"amount": e.Amount.String(),
	}
}

// WalletCreated is emitted by the factory once per provisioned wallet.
type WalletCreated struct {
	Factory     address.Address
	Beneficiary address.Address
	ScheduleID  uint64
	Wallet      address.Address
}

func (e WalletCreated) Name() string             { return "WalletCreated" }
func (e WalletCreated) Emitter() address.Address { return e.Factory }
func (e WalletCreated) Attrs() map[string]string {
	return map[string]string{
		"beneficiary": e.Beneficiary.String(),
		"scheduleId":  strconv.FormatUint(e.ScheduleID, 10),
		"wallet":      e.Wallet.String(),
	}
}

type Transfer struct {
	Token  address.Address
	From   address.Address
	To     address.Address
	Amount abi.TokenAmount
}

func (e Transfer) Name() string             { return "Transfer" }
func (e Transfer) Emitter() address.Address { return e.Token }
func (e Transfer) Attrs() map[string]string {
	return map[string]string{
		"from":   e.From.String(),
		"to":     e.To.String(),
		"amount": e.Amount.String(),
	}
}

type Paused struct {
	Token   address.Address
	Account address.Address
}

func (e Paused) Name() string             { return "Paused" }
func (e Paused) Emitter() address.Address { return e.Token }
func (e Paused) Attrs() map[string]string {
	return map[string]string{"account": e.Account.String()}
}

type Unpaused struct {
	Token   address.Address
	Account address.Address
}

func (e Unpaused) Name() string             { return "Unpaused" }
func (e Unpaused) Emitter() address.Address { return e.Token }
func (e Unpaused) Attrs() map[string]string {
	return map[string]string{"account": e.Account.String()}
}

type OwnershipTransferred struct {
	Contract      address.Address
	PreviousOwner address.Address
	NewOwner      address.Address
}

func (e OwnershipTransferred) Name() string             { return "OwnershipTransferred" }
func (e OwnershipTransferred) Emitter() address.Address { return e.Contract }
func (e OwnershipTransferred) Attrs() map[string]string {
	return map[string]string{
		"previousOwner": e.PreviousOwner.String(),
		"newOwner":      e.NewOwner.String(),
	}
}
