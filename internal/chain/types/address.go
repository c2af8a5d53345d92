package types

import (
	"bytes"
	"encoding/binary"

	"github.com/filecoin-project/go-address"
)

// IsZero reports whether addr is the null account.
func IsZero(addr address.Address) bool {
	return addr == address.Undef
}

// IsContract reports whether addr refers to contract code (an actor address)
// rather than a key-controlled account.
func IsContract(addr address.Address) bool {
	return !IsZero(addr) && addr.Protocol() == address.Actor
}

// ContractAddress 根据部署者和种子派生合约地址
// 派生结果仅用于寻址，唯一性由调用方的映射表保证
func ContractAddress(deployer address.Address, seed string, nonce uint64, extra ...[]byte) (address.Address, error) {
	var buf bytes.Buffer
	buf.Write(deployer.Bytes())
	buf.WriteString(seed)
	buf.Write(binary.AppendUvarint(nil, nonce))
	for _, b := range extra {
		buf.Write(b)
	}
	return address.NewActorAddress(buf.Bytes())
}
