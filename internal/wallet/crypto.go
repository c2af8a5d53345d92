package wallet

import (
	"errors"
	"fmt"

	"github.com/filecoin-project/go-address"
	fcrypto "github.com/filecoin-project/go-crypto"
	"github.com/filecoin-project/go-state-types/crypto"
	"golang.org/x/crypto/blake2b"
)

var ErrInvalidSignature = errors.New("signature did not match the signing address")

// SignBytes signs data with a private key using the specified signature type.
// secp256k1 signs the blake2b-256 digest, BLS signs the raw bytes.
func SignBytes(data []byte, privKey []byte, sigType crypto.SigType) ([]byte, error) {
	switch sigType {
	case crypto.SigTypeSecp256k1:
		digest := blake2b.Sum256(data)
		sig, err := fcrypto.Sign(privKey, digest[:])
		if err != nil {
			log.Errorf("SignBytes: secp256k1 signing failed: %v", err)
			return nil, err
		}
		return sig, nil

	case crypto.SigTypeBLS:
		return BLSSign(privKey, data)

	default:
		return nil, fmt.Errorf("unsupported signature type: %d", sigType)
	}
}

// Verify checks that sig over msg was produced by the key behind addr.
// The signature type must match the address protocol.
func Verify(sig *crypto.Signature, addr address.Address, msg []byte) error {
	if sig == nil {
		return fmt.Errorf("missing signature")
	}

	switch sig.Type {
	case crypto.SigTypeSecp256k1:
		if addr.Protocol() != address.SECP256K1 {
			return fmt.Errorf("secp256k1 signature for %s address %s", protocolName(addr), addr)
		}
		digest := blake2b.Sum256(msg)
		pubKey, err := fcrypto.EcRecover(digest[:], sig.Data)
		if err != nil {
			return fmt.Errorf("recovering public key: %w", err)
		}
		signer, err := address.NewSecp256k1Address(pubKey)
		if err != nil {
			return err
		}
		if signer != addr {
			return ErrInvalidSignature
		}
		return nil

	case crypto.SigTypeBLS:
		if addr.Protocol() != address.BLS {
			return fmt.Errorf("bls signature for %s address %s", protocolName(addr), addr)
		}
		return BLSVerify(addr.Payload(), sig.Data, msg)

	default:
		return fmt.Errorf("unsupported signature type: %d", sig.Type)
	}
}

func protocolName(addr address.Address) string {
	switch addr.Protocol() {
	case address.ID:
		return "id"
	case address.SECP256K1:
		return "secp256k1"
	case address.Actor:
		return "actor"
	case address.BLS:
		return "bls"
	default:
		return "unknown"
	}
}

// PrivateKeyToAddress derives an account address from a private key.
func PrivateKeyToAddress(privKey []byte, sigType crypto.SigType) (address.Address, error) {
	switch sigType {
	case crypto.SigTypeSecp256k1:
		pubKey, err := secpPublicKey(privKey)
		if err != nil {
			log.Errorf("PrivateKeyToAddress: failed to get secp256k1 public key: %v", err)
			return address.Undef, err
		}
		return address.NewSecp256k1Address(pubKey)

	case crypto.SigTypeBLS:
		pubKey, err := BLSPrivateKeyToPublicKey(privKey)
		if err != nil {
			log.Errorf("PrivateKeyToAddress: failed to get BLS public key: %v", err)
			return address.Undef, err
		}
		return address.NewBLSAddress(pubKey)

	default:
		return address.Undef, fmt.Errorf("unsupported signature type: %d", sigType)
	}
}

func secpPublicKey(privKey []byte) (pubKey []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid secp256k1 private key")
		}
	}()
	pubKey = fcrypto.PublicKey(privKey)
	if len(pubKey) == 0 {
		return nil, fmt.Errorf("invalid secp256k1 private key")
	}
	return pubKey, nil
}
