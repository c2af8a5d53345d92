package actors

import (
	"bytes"
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
)

type cborMarshaler interface {
	MarshalCBOR(io.Writer) error
}

type cborUnmarshaler interface {
	UnmarshalCBOR(io.Reader) error
}

// SerializeParams 将方法参数编码为 CBOR，nil 表示无参数
func SerializeParams(p interface{}) ([]byte, error) {
	if p == nil {
		return nil, nil
	}

	m, ok := p.(cborMarshaler)
	if !ok {
		return nil, fmt.Errorf("params type %T does not support cbor", p)
	}

	var buf bytes.Buffer
	if err := m.MarshalCBOR(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DeserializeParams 解码方法参数，要求完整消费输入
func DeserializeParams(data []byte, out cborUnmarshaler) error {
	if len(data) == 0 {
		return fmt.Errorf("missing params for %T", out)
	}
	r := bytes.NewReader(data)
	if err := out.UnmarshalCBOR(r); err != nil {
		return fmt.Errorf("decoding %T: %w", out, err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("decoding %T: %d trailing bytes", out, r.Len())
	}
	return nil
}

// TransferParams 代币转账参数
type TransferParams struct {
	To     address.Address
	Amount abi.TokenAmount
}

// CreateWalletParams 工厂创建钱包参数
type CreateWalletParams struct {
	Beneficiary address.Address
	ScheduleID  uint64
}

// OwnerParams 所有权转移参数
type OwnerParams struct {
	NewOwner address.Address
}
