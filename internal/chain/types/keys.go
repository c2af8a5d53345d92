package types

import (
	"encoding/json"
	"fmt"

	"github.com/filecoin-project/go-state-types/crypto"
)

// KeyType 账户密钥类型
type KeyType string

const (
	KTSecp256k1 KeyType = "secp256k1"
	KTBLS       KeyType = "bls"
)

// SigType 将密钥类型转换为签名类型
func (kt KeyType) SigType() (crypto.SigType, error) {
	switch kt {
	case KTSecp256k1:
		return crypto.SigTypeSecp256k1, nil
	case KTBLS:
		return crypto.SigTypeBLS, nil
	default:
		return crypto.SigTypeUnknown, fmt.Errorf("unsupported key type: %s", kt)
	}
}

// KeyTypeForSigType 将签名类型转换为密钥类型
func KeyTypeForSigType(st crypto.SigType) (KeyType, error) {
	switch st {
	case crypto.SigTypeBLS:
		return KTBLS, nil
	case crypto.SigTypeSecp256k1:
		return KTSecp256k1, nil
	default:
		return "", fmt.Errorf("unsupported signature type: %d", st)
	}
}

func (kt *KeyType) UnmarshalJSON(bb []byte) error {
	var s string
	if err := json.Unmarshal(bb, &s); err == nil {
		*kt = KeyType(s)
		return nil
	}

	var b byte
	if err := json.Unmarshal(bb, &b); err != nil {
		return fmt.Errorf("could not unmarshal KeyType either as string nor integer: %w", err)
	}
	t, err := KeyTypeForSigType(crypto.SigType(b))
	if err != nil {
		return err
	}
	*kt = t
	return nil
}

// KeyInfo 账户私钥信息，序列化后加密存入密钥库
type KeyInfo struct {
	Type       KeyType
	PrivateKey []byte
}
