package wallet

import (
	"crypto/sha256"
	"fmt"
	"io"

	bls12381 "github.com/kilic/bls12-381"
	"golang.org/x/crypto/hkdf"
)

const (
	// BLSPrivateKeyBytes BLS12-381 私钥字节长度
	BLSPrivateKeyBytes = 32
	// BLSPublicKeyBytes BLS12-381 公钥字节长度（G1 压缩点）
	BLSPublicKeyBytes = 48
	// BLSSignatureBytes BLS12-381 签名字节长度（G2 压缩点）
	BLSSignatureBytes = 96

	// BLSDST BLS 签名的域分离标签
	BLSDST = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_"
)

// blsScalar 将小端序私钥转换为曲线标量
func blsScalar(privKey []byte) (*bls12381.Fr, error) {
	if len(privKey) != BLSPrivateKeyBytes {
		return nil, fmt.Errorf("invalid BLS private key length: expected %d, got %d", BLSPrivateKeyBytes, len(privKey))
	}
	be := make([]byte, BLSPrivateKeyBytes)
	for i := range privKey {
		be[i] = privKey[BLSPrivateKeyBytes-1-i]
	}
	scalar := new(bls12381.Fr)
	scalar.FromBytes(be)
	return scalar, nil
}

// BLSPrivateKeyToPublicKey 从私钥派生 BLS 公钥：pk = sk * G1
func BLSPrivateKeyToPublicKey(privKey []byte) ([]byte, error) {
	scalar, err := blsScalar(privKey)
	if err != nil {
		log.Errorf("BLSPrivateKeyToPublicKey: %v", err)
		return nil, err
	}

	g1 := bls12381.NewG1()
	pk := g1.New()
	g1.MulScalar(pk, g1.One(), scalar)
	return g1.ToCompressed(pk), nil
}

// BLSSign 使用 BLS 私钥签名消息：sig = sk * H(msg)
func BLSSign(privKey []byte, message []byte) ([]byte, error) {
	log.Debugf("BLSSign: signing message of length %d bytes", len(message))

	scalar, err := blsScalar(privKey)
	if err != nil {
		log.Errorf("BLSSign: %v", err)
		return nil, err
	}

	g2 := bls12381.NewG2()
	h, err := g2.HashToCurve(message, []byte(BLSDST))
	if err != nil {
		log.Errorf("BLSSign: failed to hash message to curve: %v", err)
		return nil, fmt.Errorf("failed to hash message to curve: %w", err)
	}

	sig := g2.New()
	g2.MulScalar(sig, h, scalar)
	return g2.ToCompressed(sig), nil
}

// BLSVerify 校验签名：e(G1, sig) == e(pk, H(msg))
func BLSVerify(pubKey, sig, message []byte) error {
	if len(pubKey) != BLSPublicKeyBytes {
		return fmt.Errorf("invalid BLS public key length: %d", len(pubKey))
	}
	if len(sig) != BLSSignatureBytes {
		return fmt.Errorf("invalid BLS signature length: %d", len(sig))
	}

	engine := bls12381.NewEngine()
	pk, err := engine.G1.FromCompressed(pubKey)
	if err != nil {
		return fmt.Errorf("decoding BLS public key: %w", err)
	}
	s, err := engine.G2.FromCompressed(sig)
	if err != nil {
		return fmt.Errorf("decoding BLS signature: %w", err)
	}
	h, err := engine.G2.HashToCurve(message, []byte(BLSDST))
	if err != nil {
		return fmt.Errorf("failed to hash message to curve: %w", err)
	}

	if !engine.AddPairInv(engine.G1.One(), s).AddPair(pk, h).Check() {
		return ErrInvalidSignature
	}
	return nil
}

// BLSGeneratePrivateKeyWithSeed 用 HKDF 从种子派生 BLS 私钥
func BLSGeneratePrivateKeyWithSeed(ikm []byte) ([]byte, error) {
	if len(ikm) < 32 {
		log.Errorf("BLSGeneratePrivateKeyWithSeed: seed too short: got %d bytes, need at least 32", len(ikm))
		return nil, fmt.Errorf("seed must be at least 32 bytes, got %d", len(ikm))
	}

	r := hkdf.New(sha256.New, ikm, []byte("BLS-SIG-KEYGEN-SALT-"), nil)
	privKey := make([]byte, BLSPrivateKeyBytes)
	if _, err := io.ReadFull(r, privKey); err != nil {
		log.Errorf("BLSGeneratePrivateKeyWithSeed: failed to derive private key: %v", err)
		return nil, fmt.Errorf("failed to derive private key: %w", err)
	}
	return privKey, nil
}
