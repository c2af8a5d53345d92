package types

import (
	"bytes"
	"fmt"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/crypto"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
)

// MessageVersion 当前消息版本
const MessageVersion = 0

// Message is a call from an account to a contract. Every state change of the
// token, the factory and the vesting wallets enters through one.
type Message struct {
	Version uint64

	To   address.Address
	From address.Address

	Nonce uint64

	Method abi.MethodNum
	Params []byte
}

func (m *Message) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := m.MarshalCBOR(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Message) ToStorageBlock() (blocks.Block, error) {
	data, err := m.Serialize()
	if err != nil {
		return nil, err
	}

	c, err := abi.CidBuilder.Sum(data)
	if err != nil {
		return nil, err
	}

	return blocks.NewBlockWithCid(data, c)
}

// Cid 返回消息的内容标识，签名即针对该 CID 的字节
func (m *Message) Cid() cid.Cid {
	b, err := m.ToStorageBlock()
	if err != nil {
		panic(fmt.Sprintf("failed to marshal message: %s", err))
	}
	return b.Cid()
}

// ValidForBlockInclusion 检查消息的基本格式
func (m *Message) ValidForBlockInclusion() error {
	if m.Version != MessageVersion {
		return fmt.Errorf("'Version' unsupported: %d", m.Version)
	}
	if m.To == address.Undef {
		return fmt.Errorf("'To' address cannot be empty")
	}
	if m.From == address.Undef {
		return fmt.Errorf("'From' address cannot be empty")
	}
	return nil
}

type SignedMessage struct {
	Message   Message
	Signature crypto.Signature
}

func (sm *SignedMessage) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := sm.MarshalCBOR(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (sm *SignedMessage) Cid() cid.Cid {
	if sm.Signature.Type == crypto.SigTypeBLS {
		return sm.Message.Cid()
	}

	data, err := sm.Serialize()
	if err != nil {
		panic(fmt.Sprintf("failed to marshal signed message: %s", err))
	}
	c, err := abi.CidBuilder.Sum(data)
	if err != nil {
		panic(fmt.Sprintf("failed to hash signed message: %s", err))
	}
	return c
}
