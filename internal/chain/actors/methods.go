package actors

import "github.com/filecoin-project/go-state-types/abi"

// Token methods
const (
	MethodTransfer          abi.MethodNum = 2
	MethodPause             abi.MethodNum = 3
	MethodUnpause           abi.MethodNum = 4
	MethodTransferOwnership abi.MethodNum = 5
	MethodRenounceOwnership abi.MethodNum = 6
)

// Factory methods. Ownership methods share the token's numbers.
const (
	MethodCreateWallet abi.MethodNum = 2
)

// Vesting wallet methods
const (
	MethodRelease abi.MethodNum = 2
)
