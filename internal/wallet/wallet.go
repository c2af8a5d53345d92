package wallet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	fcrypto "github.com/filecoin-project/go-crypto"
	"github.com/filecoin-project/go-state-types/crypto"
	logging "github.com/ipfs/go-log/v2"

	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/repository"
)

var log = logging.Logger("wallet")

// KeyStore 账户私钥来源，由 repository.Store 实现
type KeyStore interface {
	GetWalletKey(addr address.Address) (*types.KeyInfo, error)
}

// WalletSign 使用指定地址的私钥签名数据
func WalletSign(ks KeyStore, addr address.Address, msg []byte) (*crypto.Signature, error) {
	ki, err := ks.GetWalletKey(addr)
	if err != nil {
		log.Errorf("WalletSign: failed to get key for %s: %v", addr, err)
		return nil, fmt.Errorf("getting key for %s: %w", addr, err)
	}

	sigType, err := ki.Type.SigType()
	if err != nil {
		return nil, err
	}

	sigBytes, err := SignBytes(msg, ki.PrivateKey, sigType)
	if err != nil {
		log.Errorf("WalletSign: failed to sign bytes for %s: %v", addr, err)
		return nil, err
	}

	log.Debugf("WalletSign: signed %d bytes for %s", len(msg), addr)
	return &crypto.Signature{Type: sigType, Data: sigBytes}, nil
}

// SignMessage 对消息 CID 签名并组装 SignedMessage
func SignMessage(ks KeyStore, msg *types.Message) (*types.SignedMessage, error) {
	if err := msg.ValidForBlockInclusion(); err != nil {
		return nil, err
	}
	sig, err := WalletSign(ks, msg.From, msg.Cid().Bytes())
	if err != nil {
		return nil, err
	}
	return &types.SignedMessage{Message: *msg, Signature: *sig}, nil
}

// VerifyMessage 校验签名消息的发送者
func VerifyMessage(sm *types.SignedMessage) error {
	if err := Verify(&sm.Signature, sm.Message.From, sm.Message.Cid().Bytes()); err != nil {
		return fmt.Errorf("message %s from %s: %w", sm.Cid(), sm.Message.From, err)
	}
	return nil
}

// WalletImport 从密钥信息派生地址
func WalletImport(ki *types.KeyInfo) (address.Address, error) {
	sigType, err := ki.Type.SigType()
	if err != nil {
		return address.Undef, err
	}

	addr, err := PrivateKeyToAddress(ki.PrivateKey, sigType)
	if err != nil {
		log.Errorf("WalletImport: failed to derive address: %v", err)
		return address.Undef, fmt.Errorf("failed to make key: %w", err)
	}

	log.Infof("WalletImport: imported key, address: %s", addr)
	return addr, nil
}

// WalletNew 根据密钥类型生成新密钥
func WalletNew(typ types.KeyType) (*types.KeyInfo, address.Address, error) {
	sigType, err := typ.SigType()
	if err != nil {
		return nil, address.Undef, err
	}

	var privKey []byte
	switch sigType {
	case crypto.SigTypeSecp256k1:
		privKey, err = fcrypto.GenerateKey()
	case crypto.SigTypeBLS:
		seed := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, seed); err != nil {
			return nil, address.Undef, fmt.Errorf("failed to generate random seed: %w", err)
		}
		privKey, err = BLSGeneratePrivateKeyWithSeed(seed)
	}
	if err != nil {
		log.Errorf("WalletNew: failed to generate %s key: %v", typ, err)
		return nil, address.Undef, fmt.Errorf("failed to generate %s key: %w", typ, err)
	}

	addr, err := PrivateKeyToAddress(privKey, sigType)
	if err != nil {
		return nil, address.Undef, fmt.Errorf("failed to derive address: %w", err)
	}

	log.Infof("WalletNew: generated new %s key, address: %s", typ, addr)
	return &types.KeyInfo{Type: typ, PrivateKey: privKey}, addr, nil
}

// WalletHas 检查密钥库中是否有指定地址的密钥
func WalletHas(ks KeyStore, addr address.Address) (bool, error) {
	_, err := ks.GetWalletKey(addr)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}
