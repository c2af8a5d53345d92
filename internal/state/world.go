package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/events"
	"legend-vesting/internal/factory"
	"legend-vesting/internal/schedule"
	"legend-vesting/internal/token"
	"legend-vesting/internal/vesting"
)

var log = logging.Logger("state")

var (
	ErrNoOwner         = errors.New("genesis: owner must be a key account")
	ErrStartOutOfRange = fmt.Errorf("genesis: start must not exceed %d", uint64(MaxStart))
)

// MaxStart 数据库以有符号 64 位整数保存时间戳
const MaxStart = math.MaxInt64

// World 一次消息执行所见的全部合约状态
type World struct {
	Token     *token.Ledger
	Schedules *schedule.Registry
	Factory   *factory.Factory
	Nonces    map[address.Address]uint64
	Events    *events.Log
}

// GenesisParams 初始部署参数
type GenesisParams struct {
	Owner     address.Address
	Start     uint64
	Metadata  token.Metadata
	Supply    abi.TokenAmount
	Durations []int64
}

// TokenAddress 代币合约地址由部署者决定
func TokenAddress(owner address.Address) (address.Address, error) {
	return types.ContractAddress(owner, "legend-token", 0)
}

// FactoryAddress 工厂合约地址由部署者决定
func FactoryAddress(owner address.Address) (address.Address, error) {
	return types.ContractAddress(owner, "vesting-factory", 0)
}

// Genesis 部署代币、计划表和工厂，全部发行量归 owner
func Genesis(p GenesisParams) (*World, error) {
	if types.IsZero(p.Owner) || types.IsContract(p.Owner) {
		return nil, ErrNoOwner
	}
	if p.Start > MaxStart {
		return nil, ErrStartOutOfRange
	}

	tokenAddr, err := TokenAddress(p.Owner)
	if err != nil {
		return nil, err
	}
	factoryAddr, err := FactoryAddress(p.Owner)
	if err != nil {
		return nil, err
	}

	evs := events.NewLog()

	registry, err := schedule.NewRegistry(p.Durations)
	if err != nil {
		return nil, fmt.Errorf("building schedule registry: %w", err)
	}

	ledger, err := token.New(tokenAddr, p.Owner, p.Metadata, p.Supply, evs)
	if err != nil {
		return nil, fmt.Errorf("deploying token: %w", err)
	}

	f, err := factory.New(factoryAddr, p.Owner, ledger, registry, p.Start, evs)
	if err != nil {
		return nil, fmt.Errorf("deploying factory: %w", err)
	}

	log.Infof("Genesis: token %s, factory %s, %d schedules, start %d", tokenAddr, factoryAddr, registry.Len(), p.Start)
	return &World{
		Token:     ledger,
		Schedules: registry,
		Factory:   f,
		Nonces:    make(map[address.Address]uint64),
		Events:    evs,
	}, nil
}

// Nonce 返回账户的下一个 nonce
func (w *World) Nonce(addr address.Address) uint64 {
	return w.Nonces[addr]
}

// BumpNonce 消息执行成功后递增 nonce
func (w *World) BumpNonce(addr address.Address) {
	w.Nonces[addr]++
}

// VestingWallet 按地址查找工厂创建的钱包
func (w *World) VestingWallet(addr address.Address) (*vesting.Wallet, bool) {
	return w.Factory.Wallet(addr)
}
