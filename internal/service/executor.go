package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/chain/actors"
	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/repository"
	"legend-vesting/internal/state"
	"legend-vesting/internal/wallet"
)

var log = logging.Logger("executor")

var (
	ErrAlreadyInitialized = errors.New("vesting state already initialized")
	ErrBadNonce           = errors.New("message nonce does not match the account nonce")
	ErrUnknownActor       = errors.New("no contract at message destination")
	ErrUnknownMethod      = errors.New("method not supported by the destination contract")
	ErrUnexpectedParams   = errors.New("method takes no params")
)

// Executor 执行签名消息：校验签名与 nonce，调度到合约，并原子地持久化结果
// 进程内由 mu 串行，多个进程之间由数据库写事务串行
type Executor struct {
	mu    sync.Mutex
	store *repository.Store
	clock Clock
}

func NewExecutor(store *repository.Store, clock Clock) *Executor {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Executor{store: store, clock: clock}
}

func (e *Executor) Store() *repository.Store { return e.store }

func (e *Executor) Now() uint64 { return e.clock.Now() }

// Genesis 部署代币、计划表和工厂，只能执行一次
func (e *Executor) Genesis(ctx context.Context, p state.GenesisParams) (*state.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var w *state.World
	err := e.store.Update(func(tx *repository.Store) error {
		ok, err := tx.Initialized()
		if err != nil {
			return err
		}
		if ok {
			return ErrAlreadyInitialized
		}

		w, err = state.Genesis(p)
		if err != nil {
			log.Errorf("Genesis: %v", err)
			return err
		}
		return tx.SaveWorld(w, repository.EventMeta{MsgCid: "genesis", Timestamp: e.clock.Now()})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Genesis: deployed token %s and factory %s for owner %s", w.Token.Address(), w.Factory.Address(), p.Owner)
	return w, nil
}

// Push 执行一条签名消息，失败时不写入任何状态
func (e *Executor) Push(ctx context.Context, sm *types.SignedMessage) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg := &sm.Message
	if err := msg.ValidForBlockInclusion(); err != nil {
		return nil, err
	}
	if err := wallet.VerifyMessage(sm); err != nil {
		log.Warnf("Push: rejected message from %s: %v", msg.From, err)
		return nil, err
	}
	msgCid := sm.Cid()

	e.mu.Lock()
	defer e.mu.Unlock()

	// 读取、校验、执行和写入处于同一写事务，其他进程的消息只能在提交后开始
	var rcpt *Receipt
	err := e.store.Update(func(tx *repository.Store) error {
		w, err := tx.LoadWorld()
		if err != nil {
			return err
		}

		if expected := w.Nonce(msg.From); msg.Nonce != expected {
			log.Warnf("Push: %s sent nonce %d, expected %d", msg.From, msg.Nonce, expected)
			return fmt.Errorf("%w: got %d, expected %d", ErrBadNonce, msg.Nonce, expected)
		}

		now := e.clock.Now()
		ret, err := e.apply(w, msg, now)
		if err != nil {
			log.Warnf("Push: message %s (%s -> %s method %d) failed: %v", msgCid, msg.From, msg.To, msg.Method, err)
			return err
		}

		w.BumpNonce(msg.From)
		evs := w.Events.Events()
		if err := tx.SaveWorld(w, repository.EventMeta{MsgCid: msgCid.String(), Timestamp: now}); err != nil {
			return fmt.Errorf("committing message %s: %w", msgCid, err)
		}
		rcpt = &Receipt{Message: msgCid, Timestamp: now, Return: ret, Events: evs}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Push: applied message %s from %s, %d events", msgCid, msg.From, len(rcpt.Events))
	return rcpt, nil
}

// Send 构造消息，用密钥库中 from 的私钥签名后执行
func (e *Executor) Send(ctx context.Context, from, to address.Address, method abi.MethodNum, params interface{}) (*Receipt, error) {
	enc, err := actors.SerializeParams(params)
	if err != nil {
		return nil, err
	}

	nonce, err := e.NextNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	sm, err := wallet.SignMessage(e.store, &types.Message{
		Version: types.MessageVersion,
		To:      to,
		From:    from,
		Nonce:   nonce,
		Method:  method,
		Params:  enc,
	})
	if err != nil {
		return nil, err
	}
	return e.Push(ctx, sm)
}

// NextNonce 返回账户下一条消息应使用的 nonce
func (e *Executor) NextNonce(ctx context.Context, addr address.Address) (uint64, error) {
	var nonce uint64
	err := e.View(ctx, func(w *state.World, _ uint64) error {
		nonce = w.Nonce(addr)
		return nil
	})
	return nonce, err
}

// View 在当前状态上执行只读查询，fn 内的修改不会被保存
func (e *Executor) View(ctx context.Context, fn func(w *state.World, now uint64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.store.LoadWorld()
	if err != nil {
		return err
	}
	return fn(w, e.clock.Now())
}

// apply 按 (To, Method) 调度消息
func (e *Executor) apply(w *state.World, msg *types.Message, now uint64) ([]byte, error) {
	switch {
	case msg.To == w.Token.Address():
		return nil, applyToken(w, msg)
	case msg.To == w.Factory.Address():
		return applyFactory(w, msg)
	}

	vw, ok := w.VestingWallet(msg.To)
	if !ok {
		return nil, fmt.Errorf("%s: %w", msg.To, ErrUnknownActor)
	}

	switch msg.Method {
	case actors.MethodRelease:
		if err := noParams(msg); err != nil {
			return nil, err
		}
		amt, err := vw.Release(now)
		if err != nil {
			return nil, err
		}
		return actors.SerializeParams(&amt)
	default:
		return nil, fmt.Errorf("vesting wallet method %d: %w", msg.Method, ErrUnknownMethod)
	}
}

func applyToken(w *state.World, msg *types.Message) error {
	switch msg.Method {
	case actors.MethodTransfer:
		var p actors.TransferParams
		if err := actors.DeserializeParams(msg.Params, &p); err != nil {
			return err
		}
		return w.Token.Transfer(msg.From, p.To, p.Amount)
	case actors.MethodPause:
		if err := noParams(msg); err != nil {
			return err
		}
		return w.Token.Pause(msg.From)
	case actors.MethodUnpause:
		if err := noParams(msg); err != nil {
			return err
		}
		return w.Token.Unpause(msg.From)
	case actors.MethodTransferOwnership:
		var p actors.OwnerParams
		if err := actors.DeserializeParams(msg.Params, &p); err != nil {
			return err
		}
		return w.Token.Ownership().TransferOwnership(msg.From, p.NewOwner)
	case actors.MethodRenounceOwnership:
		if err := noParams(msg); err != nil {
			return err
		}
		return w.Token.Ownership().RenounceOwnership(msg.From)
	default:
		return fmt.Errorf("token method %d: %w", msg.Method, ErrUnknownMethod)
	}
}

func applyFactory(w *state.World, msg *types.Message) ([]byte, error) {
	switch msg.Method {
	case actors.MethodCreateWallet:
		var p actors.CreateWalletParams
		if err := actors.DeserializeParams(msg.Params, &p); err != nil {
			return nil, err
		}
		addr, err := w.Factory.CreateWallet(msg.From, p.Beneficiary, p.ScheduleID)
		if err != nil {
			return nil, err
		}
		return actors.SerializeParams(&addr)
	case actors.MethodTransferOwnership:
		var p actors.OwnerParams
		if err := actors.DeserializeParams(msg.Params, &p); err != nil {
			return nil, err
		}
		return nil, w.Factory.Ownership().TransferOwnership(msg.From, p.NewOwner)
	case actors.MethodRenounceOwnership:
		if err := noParams(msg); err != nil {
			return nil, err
		}
		return nil, w.Factory.Ownership().RenounceOwnership(msg.From)
	default:
		return nil, fmt.Errorf("factory method %d: %w", msg.Method, ErrUnknownMethod)
	}
}

func noParams(msg *types.Message) error {
	if len(msg.Params) != 0 {
		return fmt.Errorf("method %d: %w", msg.Method, ErrUnexpectedParams)
	}
	return nil
}
