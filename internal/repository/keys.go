package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/filecoin-project/go-address"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"legend-vesting/internal/chain/types"
	crypto2 "legend-vesting/internal/crypto"
	"legend-vesting/internal/models"
)

// SaveWalletKey 加密并保存账户私钥，地址作为 AEAD 附加数据
func (s *Store) SaveWalletKey(addr address.Address, ki types.KeyInfo) error {
	if s.encryptionKey == nil {
		return ErrLocked
	}

	raw, err := json.Marshal(ki)
	if err != nil {
		return err
	}
	enc, err := crypto2.EncryptGCM(raw, s.encryptionKey, addr.Bytes())
	if err != nil {
		log.Errorf("SaveWalletKey: failed to encrypt key data: %v", err)
		return err
	}

	item := &models.WalletKey{
		Address:      addr.String(),
		KeyType:      string(ki.Type),
		EncryptedKey: enc,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"key_type", "encrypted_key", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		log.Errorf("SaveWalletKey: failed to save key for %s: %v", addr, err)
		return err
	}

	log.Infof("SaveWalletKey: saved %s key for %s", ki.Type, addr)
	return nil
}

// GetWalletKey 读取并解密账户私钥
func (s *Store) GetWalletKey(addr address.Address) (*types.KeyInfo, error) {
	if s.encryptionKey == nil {
		return nil, ErrLocked
	}

	item := &models.WalletKey{}
	if err := s.DB.Where("address = ?", addr.String()).First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", addr, ErrKeyNotFound)
		}
		return nil, err
	}

	raw, err := crypto2.DecryptGCM(item.EncryptedKey, s.encryptionKey, addr.Bytes())
	if err != nil {
		log.Errorf("GetWalletKey: failed to decrypt key for %s: %v", addr, err)
		return nil, err
	}

	var ki types.KeyInfo
	if err := json.Unmarshal(raw, &ki); err != nil {
		return nil, fmt.Errorf("unmarshaling key: %w", err)
	}
	return &ki, nil
}

// DeleteWalletKey 删除账户私钥
func (s *Store) DeleteWalletKey(addr address.Address) error {
	res := s.DB.Where("address = ?", addr.String()).Delete(&models.WalletKey{})
	if res.Error != nil {
		log.Errorf("DeleteWalletKey: failed to delete key for %s: %v", addr, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", addr, ErrKeyNotFound)
	}

	log.Infof("DeleteWalletKey: deleted key for %s", addr)
	return nil
}

// GetAllWalletAddresses 列出密钥库中的账户，不解密私钥
func (s *Store) GetAllWalletAddresses() ([]models.WalletKey, error) {
	var items []models.WalletKey
	if err := s.DB.Select("id", "address", "key_type", "created_at", "updated_at").
		Order("created_at").Find(&items).Error; err != nil {
		log.Errorf("GetAllWalletAddresses: failed to query wallet keys: %v", err)
		return nil, err
	}
	return items, nil
}
