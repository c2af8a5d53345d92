package token

import (
	"errors"
	"fmt"
	"sort"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/access"
	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/events"
)

var log = logging.Logger("token")

const (
	DefaultName     = "Legend"
	DefaultSymbol   = "LEGEND"
	DefaultDecimals = types.LegendDecimals

	// DefaultSupply 初始发行量（单位 LEGEND）
	DefaultSupply = 1_000_000_000
)

var (
	ErrPaused              = errors.New("erc20 pausable: token transfer while paused")
	ErrAlreadyPaused       = errors.New("pausable: paused")
	ErrNotPaused           = errors.New("pausable: not paused")
	ErrZeroAddress         = errors.New("erc20: transfer involving the zero address")
	ErrInsufficientBalance = errors.New("erc20: transfer amount exceeds balance")
	ErrNegativeAmount      = errors.New("erc20: negative amount")
	ErrNotContract         = errors.New("erc20: token must live at a contract address")
	ErrSupplyMismatch      = errors.New("erc20: balances do not add up to total supply")
)

// Metadata 代币元数据
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// DefaultMetadata 返回 LEGEND 代币的元数据
func DefaultMetadata() Metadata {
	return Metadata{Name: DefaultName, Symbol: DefaultSymbol, Decimals: DefaultDecimals}
}

// Ledger is a pausable fungible token with a single owner. It is the asset
// vesting wallets hold and pay out.
type Ledger struct {
	addr        address.Address
	meta        Metadata
	totalSupply abi.TokenAmount
	balances    map[address.Address]abi.TokenAmount
	paused      bool

	ownership *access.Ownable
	emitter   events.Emitter
}

// New 部署代币并将全部发行量铸造给 owner
func New(addr, owner address.Address, meta Metadata, supply abi.TokenAmount, emitter events.Emitter) (*Ledger, error) {
	log.Infof("New: deploying %s (%s) at %s, supply %s", meta.Name, meta.Symbol, addr, supply)

	if !types.IsContract(addr) {
		return nil, ErrNotContract
	}
	if supply.Int == nil || supply.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if emitter == nil {
		emitter = events.Discard
	}

	ownership, err := access.NewOwnable(addr, owner, emitter)
	if err != nil {
		log.Errorf("New: invalid owner: %v", err)
		return nil, err
	}

	l := &Ledger{
		addr:        addr,
		meta:        meta,
		totalSupply: supply,
		balances:    map[address.Address]abi.TokenAmount{owner: supply},
		ownership:   ownership,
		emitter:     emitter,
	}
	emitter.Emit(events.Transfer{Token: addr, From: address.Undef, To: owner, Amount: supply})
	return l, nil
}

// Restore 从持久化状态恢复代币，余额总和必须等于发行量
func Restore(addr, owner address.Address, meta Metadata, supply abi.TokenAmount, balances map[address.Address]abi.TokenAmount, paused bool, emitter events.Emitter) (*Ledger, error) {
	if !types.IsContract(addr) {
		return nil, ErrNotContract
	}
	if emitter == nil {
		emitter = events.Discard
	}

	sum := big.Zero()
	copied := make(map[address.Address]abi.TokenAmount, len(balances))
	for holder, amt := range balances {
		if amt.Int == nil || amt.Sign() < 0 {
			return nil, fmt.Errorf("balance of %s: %w", holder, ErrNegativeAmount)
		}
		sum = big.Add(sum, amt)
		copied[holder] = amt
	}
	if !sum.Equals(supply) {
		log.Errorf("Restore: balances sum to %s, total supply is %s", sum, supply)
		return nil, ErrSupplyMismatch
	}

	return &Ledger{
		addr:        addr,
		meta:        meta,
		totalSupply: supply,
		balances:    copied,
		paused:      paused,
		ownership:   access.RestoreOwnable(addr, owner, emitter),
		emitter:     emitter,
	}, nil
}

func (l *Ledger) Address() address.Address {
	if l == nil {
		return address.Undef
	}
	return l.addr
}

func (l *Ledger) Metadata() Metadata {
	return l.meta
}

func (l *Ledger) TotalSupply() abi.TokenAmount {
	return l.totalSupply
}

func (l *Ledger) BalanceOf(holder address.Address) abi.TokenAmount {
	if b, ok := l.balances[holder]; ok {
		return b
	}
	return big.Zero()
}

// Holder 代币持有者及其余额
type Holder struct {
	Address address.Address
	Balance abi.TokenAmount
}

// Holders 按地址排序返回所有余额记录
func (l *Ledger) Holders() []Holder {
	out := make([]Holder, 0, len(l.balances))
	for a, b := range l.balances {
		out = append(out, Holder{Address: a, Balance: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address.String() < out[j].Address.String() })
	return out
}

// Transfer 从 from 转账到 to，暂停期间失败
// 所有检查在修改余额之前完成
func (l *Ledger) Transfer(from, to address.Address, amount abi.TokenAmount) error {
	log.Debugf("Transfer: %s -> %s amount %s", from, to, amount)

	if amount.Int == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if from == address.Undef || to == address.Undef {
		return ErrZeroAddress
	}
	if l.paused {
		log.Warnf("Transfer: rejected %s -> %s, token is paused", from, to)
		return ErrPaused
	}

	fromBal := l.BalanceOf(from)
	if fromBal.LessThan(amount) {
		log.Warnf("Transfer: %s holds %s, cannot send %s", from, fromBal, amount)
		return ErrInsufficientBalance
	}

	l.balances[from] = big.Sub(fromBal, amount)
	l.balances[to] = big.Add(l.BalanceOf(to), amount)

	l.emitter.Emit(events.Transfer{Token: l.addr, From: from, To: to, Amount: amount})
	log.Infof("Transfer: moved %s from %s to %s", types.LEGEND(amount), from, to)
	return nil
}

func (l *Ledger) Paused() bool {
	return l.paused
}

func (l *Ledger) Pause(caller address.Address) error {
	if err := l.ownership.CheckOwner(caller); err != nil {
		return err
	}
	if l.paused {
		return ErrAlreadyPaused
	}
	l.paused = true
	l.emitter.Emit(events.Paused{Token: l.addr, Account: caller})
	log.Infof("Pause: %s paused by %s", l.meta.Symbol, caller)
	return nil
}

func (l *Ledger) Unpause(caller address.Address) error {
	if err := l.ownership.CheckOwner(caller); err != nil {
		return err
	}
	if !l.paused {
		return ErrNotPaused
	}
	l.paused = false
	l.emitter.Emit(events.Unpaused{Token: l.addr, Account: caller})
	log.Infof("Unpause: %s unpaused by %s", l.meta.Symbol, caller)
	return nil
}

// Ownership 代币自身的所有权控制
func (l *Ledger) Ownership() *access.Ownable {
	return l.ownership
}
