package crypto2

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

// KeyLen AES-256 密钥长度
const KeyLen = 32

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrDecryptionFailed  = errors.New("decryption failed: authentication error")
	ErrEmptySeed         = errors.New("encryption seed must not be empty")
)

// KDFParams 密钥派生参数（Scrypt + Argon2id）
type KDFParams struct {
	ScryptN int
	ScryptR int
	ScryptP int

	Argon2Time    uint32
	Argon2Memory  uint32 // KiB
	Argon2Threads uint8
}

// DefaultKDFParams 生产环境参数 (N=2^17, 64 MB argon2)
func DefaultKDFParams() KDFParams {
	return KDFParams{
		ScryptN:       1 << 17,
		ScryptR:       8,
		ScryptP:       1,
		Argon2Time:    3,
		Argon2Memory:  64 * 1024,
		Argon2Threads: 4,
	}
}

// FastKDFParams 低成本参数，仅用于测试和临时数据库
func FastKDFParams() KDFParams {
	return KDFParams{
		ScryptN:       1 << 10,
		ScryptR:       8,
		ScryptP:       1,
		Argon2Time:    1,
		Argon2Memory:  1024,
		Argon2Threads: 1,
	}
}

// DeriveKey 从配置的种子派生密钥库加密密钥
// 盐取种子的 SHA-256，同一种子总是得到同一密钥
func DeriveKey(seed []byte, p KDFParams) ([]byte, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	return GenerateEncryptKey(seed, Hash256(seed), p)
}

// GenerateEncryptKey derives an encryption key using Scrypt + Argon2id
// 双重密钥派生：Scrypt 抗 ASIC，Argon2id 抗 GPU
func GenerateEncryptKey(password, salt []byte, p KDFParams) ([]byte, error) {
	scryptKey, err := scrypt.Key(password, salt, p.ScryptN, p.ScryptR, p.ScryptP, KeyLen)
	if err != nil {
		return nil, err
	}
	return argon2.IDKey(scryptKey, salt, p.Argon2Time, p.Argon2Memory, p.Argon2Threads, KeyLen), nil
}

// Hash256 computes SHA-256 hash of data
func Hash256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// EncryptGCM encrypts data using AES-256-GCM (authenticated encryption)
// aad 绑定密文与其所属记录（如账户地址），防止密文被挪用到其他记录
// Returns: nonce (12 bytes) + ciphertext + tag (16 bytes)
func EncryptGCM(plaintext, key, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, aad), nil
}

// DecryptGCM decrypts data using AES-256-GCM (authenticated encryption)
func DecryptGCM(ciphertext, key, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertext = ciphertext[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
