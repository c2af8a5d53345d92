package factory

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/filecoin-project/go-address"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/access"
	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/events"
	"legend-vesting/internal/vesting"
)

var log = logging.Logger("factory")

var (
	ErrTokenNotContract    = errors.New("factory: ERC20 address is not a contract")
	ErrScheduleNotContract = errors.New("factory: schedule address is not a contract")
	ErrExistingWallet      = errors.New("factory: wallet already exists")
	ErrWalletMismatch      = errors.New("factory: wallet does not match factory parameters")
)

// ExistingWalletError reports a second creation attempt for the same
// (beneficiary, schedule) pair.
type ExistingWalletError struct {
	Beneficiary address.Address
	ScheduleID  uint64
}

func (e *ExistingWalletError) Error() string {
	return fmt.Sprintf("factory: wallet already exists for beneficiary %s and schedule %d", e.Beneficiary, e.ScheduleID)
}

func (e *ExistingWalletError) Is(target error) bool {
	return target == ErrExistingWallet
}

// Schedules resolves a schedule id to a vesting duration in seconds.
type Schedules interface {
	GetDuration(id uint64) (uint64, error)
}

type walletKey struct {
	beneficiary address.Address
	scheduleID  uint64
}

// Entry 工厂记录的一条钱包映射
type Entry struct {
	Beneficiary address.Address
	ScheduleID  uint64
	Wallet      *vesting.Wallet
}

// Factory provisions at most one vesting wallet per (beneficiary, schedule)
// pair. All wallets share the factory's token and start timestamp.
type Factory struct {
	addr      address.Address
	token     vesting.Token
	schedules Schedules
	start     uint64
	ownership *access.Ownable
	emitter   events.Emitter

	wallets  map[walletKey]address.Address
	deployed map[address.Address]*vesting.Wallet
	order    []walletKey

	// created 已创建的钱包数，参与钱包地址派生
	created uint64
}

// New 部署工厂
func New(addr, owner address.Address, token vesting.Token, schedules Schedules, start uint64, emitter events.Emitter) (*Factory, error) {
	log.Infof("New: deploying factory %s, start %d", addr, start)

	if emitter == nil {
		emitter = events.Discard
	}
	if err := validate(token, schedules); err != nil {
		return nil, err
	}

	ownership, err := access.NewOwnable(addr, owner, emitter)
	if err != nil {
		log.Errorf("New: invalid owner: %v", err)
		return nil, err
	}
	return newFactory(addr, ownership, token, schedules, start, 0, emitter), nil
}

// Restore 从持久化状态恢复工厂，钱包随后通过 Adopt 加入
func Restore(addr, owner address.Address, token vesting.Token, schedules Schedules, start, created uint64, emitter events.Emitter) (*Factory, error) {
	if emitter == nil {
		emitter = events.Discard
	}
	if err := validate(token, schedules); err != nil {
		return nil, err
	}
	return newFactory(addr, access.RestoreOwnable(addr, owner, emitter), token, schedules, start, created, emitter), nil
}

func validate(token vesting.Token, schedules Schedules) error {
	if token == nil || !types.IsContract(token.Address()) {
		log.Error("validate: token is not a contract")
		return ErrTokenNotContract
	}
	if schedules == nil {
		log.Error("validate: schedule registry is missing")
		return ErrScheduleNotContract
	}
	return nil
}

func newFactory(addr address.Address, ownership *access.Ownable, token vesting.Token, schedules Schedules, start, created uint64, emitter events.Emitter) *Factory {
	return &Factory{
		addr:      addr,
		token:     token,
		schedules: schedules,
		start:     start,
		ownership: ownership,
		emitter:   emitter,
		wallets:   make(map[walletKey]address.Address),
		deployed:  make(map[address.Address]*vesting.Wallet),
		created:   created,
	}
}

// CreateWallet provisions the wallet for (beneficiary, scheduleID). Only the
// owner may call it. Nothing is recorded when any check fails.
func (f *Factory) CreateWallet(caller, beneficiary address.Address, scheduleID uint64) (address.Address, error) {
	log.Infof("CreateWallet: %s requests wallet for %s schedule %d", caller, beneficiary, scheduleID)

	if err := f.ownership.CheckOwner(caller); err != nil {
		return address.Undef, err
	}

	duration, err := f.schedules.GetDuration(scheduleID)
	if err != nil {
		log.Warnf("CreateWallet: %v", err)
		return address.Undef, err
	}

	key := walletKey{beneficiary: beneficiary, scheduleID: scheduleID}
	if _, ok := f.wallets[key]; ok {
		log.Warnf("CreateWallet: wallet for %s schedule %d already exists", beneficiary, scheduleID)
		return address.Undef, &ExistingWalletError{Beneficiary: beneficiary, ScheduleID: scheduleID}
	}

	walletAddr, err := types.ContractAddress(f.addr, "vesting-wallet", f.created,
		beneficiary.Bytes(), []byte(strconv.FormatUint(scheduleID, 10)))
	if err != nil {
		log.Errorf("CreateWallet: failed to derive wallet address: %v", err)
		return address.Undef, err
	}

	w, err := vesting.New(walletAddr, f.token, beneficiary, f.start, duration, f.emitter)
	if err != nil {
		log.Errorf("CreateWallet: failed to construct wallet: %v", err)
		return address.Undef, err
	}

	f.record(key, w)
	f.created++
	f.emitter.Emit(events.WalletCreated{
		Factory:     f.addr,
		Beneficiary: beneficiary,
		ScheduleID:  scheduleID,
		Wallet:      walletAddr,
	})

	log.Infof("CreateWallet: created %s for %s schedule %d, duration %ds", walletAddr, beneficiary, scheduleID, duration)
	return walletAddr, nil
}

// Adopt 将已恢复的钱包重新登记到映射中
func (f *Factory) Adopt(scheduleID uint64, w *vesting.Wallet) error {
	key := walletKey{beneficiary: w.Beneficiary(), scheduleID: scheduleID}
	if _, ok := f.wallets[key]; ok {
		return &ExistingWalletError{Beneficiary: key.beneficiary, ScheduleID: scheduleID}
	}
	if w.Start() != f.start || w.Token().Address() != f.token.Address() {
		return fmt.Errorf("wallet %s: %w", w.Address(), ErrWalletMismatch)
	}
	if _, ok := f.deployed[w.Address()]; ok {
		return fmt.Errorf("wallet %s adopted twice: %w", w.Address(), ErrWalletMismatch)
	}
	f.record(key, w)
	return nil
}

func (f *Factory) record(key walletKey, w *vesting.Wallet) {
	f.wallets[key] = w.Address()
	f.deployed[w.Address()] = w
	f.order = append(f.order, key)
}

// GetWallet returns the wallet address for the pair, or address.Undef.
func (f *Factory) GetWallet(beneficiary address.Address, scheduleID uint64) address.Address {
	if a, ok := f.wallets[walletKey{beneficiary: beneficiary, scheduleID: scheduleID}]; ok {
		return a
	}
	return address.Undef
}

// Wallet 按地址查找已部署的钱包
func (f *Factory) Wallet(addr address.Address) (*vesting.Wallet, bool) {
	w, ok := f.deployed[addr]
	return w, ok
}

// Entries 按创建顺序返回所有钱包
func (f *Factory) Entries() []Entry {
	out := make([]Entry, 0, len(f.order))
	for _, k := range f.order {
		out = append(out, Entry{
			Beneficiary: k.beneficiary,
			ScheduleID:  k.scheduleID,
			Wallet:      f.deployed[f.wallets[k]],
		})
	}
	return out
}

func (f *Factory) Address() address.Address   { return f.addr }
func (f *Factory) Token() vesting.Token       { return f.token }
func (f *Factory) Start() uint64              { return f.start }
func (f *Factory) Created() uint64            { return f.created }
func (f *Factory) Ownership() *access.Ownable { return f.ownership }
func (f *Factory) Owner() address.Address     { return f.ownership.Owner() }
