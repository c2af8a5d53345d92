package vesting

import (
	"errors"
	"math"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/events"
)

var log = logging.Logger("vesting")

var (
	ErrTokenNotContract = errors.New("vesting wallet: ERC20 address is not contract")
	ErrZeroBeneficiary  = errors.New("vesting wallet: beneficiary is zero address")
	ErrNegativeReleased = errors.New("vesting wallet: released amount must not be negative")
)

// Token is the part of the token ledger a vesting wallet depends on.
type Token interface {
	Address() address.Address
	BalanceOf(holder address.Address) abi.TokenAmount
	Transfer(from, to address.Address, amount abi.TokenAmount) error
}

// Phase 相对 start 与 start+duration 的释放阶段
type Phase int

const (
	PreVesting Phase = iota
	Vesting
	PostVesting
)

func (p Phase) String() string {
	switch p {
	case PreVesting:
		return "pre-vesting"
	case Vesting:
		return "vesting"
	case PostVesting:
		return "post-vesting"
	default:
		return "unknown"
	}
}

// Wallet holds tokens for a single beneficiary and releases them linearly
// between start and start+duration.
//
// The entitlement is recomputed on every call as the wallet's current
// balance plus everything released so far, so tokens deposited after start
// raise the remaining releases proportionally.
type Wallet struct {
	addr        address.Address
	token       Token
	beneficiary address.Address
	start       uint64
	duration    uint64
	released    abi.TokenAmount

	emitter events.Emitter
}

// New 创建钱包，addr 为钱包自身的持币地址
func New(addr address.Address, token Token, beneficiary address.Address, start, duration uint64, emitter events.Emitter) (*Wallet, error) {
	return Restore(addr, token, beneficiary, start, duration, big.Zero(), emitter)
}

// Restore 以已释放数量恢复钱包
func Restore(addr address.Address, token Token, beneficiary address.Address, start, duration uint64, released abi.TokenAmount, emitter events.Emitter) (*Wallet, error) {
	if token == nil || !types.IsContract(token.Address()) {
		log.Errorf("Restore: wallet %s has no valid token", addr)
		return nil, ErrTokenNotContract
	}
	if types.IsZero(beneficiary) {
		log.Errorf("Restore: wallet %s has zero beneficiary", addr)
		return nil, ErrZeroBeneficiary
	}
	if released.Int == nil || released.Sign() < 0 {
		return nil, ErrNegativeReleased
	}
	if emitter == nil {
		emitter = events.Discard
	}

	return &Wallet{
		addr:        addr,
		token:       token,
		beneficiary: beneficiary,
		start:       start,
		duration:    duration,
		released:    released,
		emitter:     emitter,
	}, nil
}

func (w *Wallet) Address() address.Address     { return w.addr }
func (w *Wallet) Token() Token                 { return w.token }
func (w *Wallet) Beneficiary() address.Address { return w.beneficiary }
func (w *Wallet) Start() uint64                { return w.start }
func (w *Wallet) Duration() uint64             { return w.duration }

// Released 已支付给受益人的累计数量
func (w *Wallet) Released() abi.TokenAmount { return w.released }

// End returns start+duration, saturating at the largest timestamp.
func (w *Wallet) End() uint64 {
	if w.duration > math.MaxUint64-w.start {
		return math.MaxUint64
	}
	return w.start + w.duration
}

func (w *Wallet) Phase(now uint64) Phase {
	switch {
	case now < w.start:
		return PreVesting
	case now >= w.End():
		return PostVesting
	default:
		return Vesting
	}
}

// TotalAllocation 当前余额加上已释放数量
func (w *Wallet) TotalAllocation() abi.TokenAmount {
	return big.Add(w.token.BalanceOf(w.addr), w.released)
}

// VestedAmount 计算 now 时刻累计可得的数量
func (w *Wallet) VestedAmount(now uint64) abi.TokenAmount {
	total := w.TotalAllocation()

	switch w.Phase(now) {
	case PreVesting:
		return big.Zero()
	case PostVesting:
		return total
	default:
		elapsed := big.NewIntUnsigned(now - w.start)
		return big.Div(big.Mul(total, elapsed), big.NewIntUnsigned(w.duration))
	}
}

// Releasable 已归属但尚未释放的数量
func (w *Wallet) Releasable(now uint64) abi.TokenAmount {
	r := big.Sub(w.VestedAmount(now), w.released)
	if r.Sign() < 0 {
		return big.Zero()
	}
	return r
}

// Release pays the releasable amount to the beneficiary. Anyone may call it.
// A zero releasable amount is a no-op. If the token transfer fails the
// released counter is left untouched.
func (w *Wallet) Release(now uint64) (abi.TokenAmount, error) {
	amount := w.Releasable(now)
	if amount.IsZero() {
		log.Debugf("Release: nothing releasable in %s at %d", w.addr, now)
		return amount, nil
	}

	if err := w.token.Transfer(w.addr, w.beneficiary, amount); err != nil {
		log.Errorf("Release: transfer of %s from %s failed: %v", amount, w.addr, err)
		return big.Zero(), err
	}

	w.released = big.Add(w.released, amount)
	w.emitter.Emit(events.ERC20Released{Wallet: w.addr, Token: w.token.Address(), Amount: amount})

	log.Infof("Release: paid %s to %s from %s (released %s)",
		types.LEGEND(amount), w.beneficiary, w.addr, types.LEGEND(w.released))
	return amount, nil
}
