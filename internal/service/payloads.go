package service

import (
	"context"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"legend-vesting/internal/chain/actors"
	"legend-vesting/internal/state"
)

// 以下方法为常用合约调用构造参数并通过 Send 执行

// CreateWallet 由工厂 owner 为 (beneficiary, scheduleID) 创建归属钱包
func (e *Executor) CreateWallet(ctx context.Context, from, beneficiary address.Address, scheduleID uint64) (address.Address, *Receipt, error) {
	factoryAddr, err := e.factoryAddress(ctx)
	if err != nil {
		return address.Undef, nil, err
	}
	rcpt, err := e.Send(ctx, from, factoryAddr, actors.MethodCreateWallet, &actors.CreateWalletParams{
		Beneficiary: beneficiary,
		ScheduleID:  scheduleID,
	})
	if err != nil {
		return address.Undef, nil, err
	}
	addr, err := rcpt.ReturnAddress()
	return addr, rcpt, err
}

// Release 释放钱包中已归属的代币给受益人，任何账户均可调用
func (e *Executor) Release(ctx context.Context, from, walletAddr address.Address) (abi.TokenAmount, *Receipt, error) {
	rcpt, err := e.Send(ctx, from, walletAddr, actors.MethodRelease, nil)
	if err != nil {
		return abi.TokenAmount{}, nil, err
	}
	amt, err := rcpt.ReturnAmount()
	return amt, rcpt, err
}

// TokenTransfer 代币转账
func (e *Executor) TokenTransfer(ctx context.Context, from, to address.Address, amount abi.TokenAmount) (*Receipt, error) {
	tokenAddr, err := e.tokenAddress(ctx)
	if err != nil {
		return nil, err
	}
	return e.Send(ctx, from, tokenAddr, actors.MethodTransfer, &actors.TransferParams{To: to, Amount: amount})
}

// SetPaused 暂停或恢复代币转账，仅代币 owner
func (e *Executor) SetPaused(ctx context.Context, from address.Address, paused bool) (*Receipt, error) {
	tokenAddr, err := e.tokenAddress(ctx)
	if err != nil {
		return nil, err
	}
	method := actors.MethodUnpause
	if paused {
		method = actors.MethodPause
	}
	return e.Send(ctx, from, tokenAddr, method, nil)
}

// TransferOwnership 转移 contract（代币或工厂）的所有权
func (e *Executor) TransferOwnership(ctx context.Context, from, contract, newOwner address.Address) (*Receipt, error) {
	return e.Send(ctx, from, contract, actors.MethodTransferOwnership, &actors.OwnerParams{NewOwner: newOwner})
}

// RenounceOwnership 放弃 contract 的所有权
func (e *Executor) RenounceOwnership(ctx context.Context, from, contract address.Address) (*Receipt, error) {
	return e.Send(ctx, from, contract, actors.MethodRenounceOwnership, nil)
}

func (e *Executor) tokenAddress(ctx context.Context) (address.Address, error) {
	var a address.Address
	err := e.View(ctx, func(w *state.World, _ uint64) error {
		a = w.Token.Address()
		return nil
	})
	return a, err
}

func (e *Executor) factoryAddress(ctx context.Context) (address.Address, error) {
	var a address.Address
	err := e.View(ctx, func(w *state.World, _ uint64) error {
		a = w.Factory.Address()
		return nil
	})
	return a, err
}
