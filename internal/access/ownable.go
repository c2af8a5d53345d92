package access

import (
	"errors"

	"github.com/filecoin-project/go-address"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/events"
)

var log = logging.Logger("access")

var (
	ErrNotOwner  = errors.New("ownable: caller is not the owner")
	ErrZeroOwner = errors.New("ownable: new owner is the zero address")
)

// Ownable 单一所有者权限控制
// 每个合约（代币、工厂）持有各自独立的实例
type Ownable struct {
	contract address.Address
	owner    address.Address
	emitter  events.Emitter
}

// NewOwnable 创建权限控制并发出初始的 OwnershipTransferred 事件
func NewOwnable(contract, owner address.Address, emitter events.Emitter) (*Ownable, error) {
	if owner == address.Undef {
		return nil, ErrZeroOwner
	}
	o := RestoreOwnable(contract, owner, emitter)
	o.emitter.Emit(events.OwnershipTransferred{
		Contract: contract,
		NewOwner: owner,
	})
	return o, nil
}

// RestoreOwnable 从持久化状态恢复，不发出事件
// owner 可以为空地址（已放弃所有权）
func RestoreOwnable(contract, owner address.Address, emitter events.Emitter) *Ownable {
	if emitter == nil {
		emitter = events.Discard
	}
	return &Ownable{contract: contract, owner: owner, emitter: emitter}
}

func (o *Ownable) Owner() address.Address {
	return o.owner
}

// IsOwner reports whether caller is the current owner. Nobody is the owner
// after the ownership has been renounced.
func (o *Ownable) IsOwner(caller address.Address) bool {
	return caller != address.Undef && caller == o.owner
}

// CheckOwner 非所有者调用时返回 ErrNotOwner
func (o *Ownable) CheckOwner(caller address.Address) error {
	if !o.IsOwner(caller) {
		log.Warnf("CheckOwner: %s is not the owner of %s", caller, o.contract)
		return ErrNotOwner
	}
	return nil
}

func (o *Ownable) TransferOwnership(caller, newOwner address.Address) error {
	if err := o.CheckOwner(caller); err != nil {
		return err
	}
	if newOwner == address.Undef {
		return ErrZeroOwner
	}
	o.setOwner(newOwner)
	return nil
}

// RenounceOwnership 放弃所有权，此后所有仅限所有者的操作都会失败
func (o *Ownable) RenounceOwnership(caller address.Address) error {
	if err := o.CheckOwner(caller); err != nil {
		return err
	}
	o.setOwner(address.Undef)
	return nil
}

func (o *Ownable) setOwner(newOwner address.Address) {
	prev := o.owner
	o.owner = newOwner
	log.Infof("setOwner: ownership of %s moved from %s to %s", o.contract, prev, newOwner)
	o.emitter.Emit(events.OwnershipTransferred{
		Contract:      o.contract,
		PreviousOwner: prev,
		NewOwner:      newOwner,
	})
}
