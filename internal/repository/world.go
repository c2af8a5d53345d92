package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"legend-vesting/internal/events"
	"legend-vesting/internal/factory"
	"legend-vesting/internal/models"
	"legend-vesting/internal/schedule"
	"legend-vesting/internal/state"
	"legend-vesting/internal/token"
	"legend-vesting/internal/vesting"
)

const singletonID = 1

// Initialized 是否已执行过 init
func (s *Store) Initialized() (bool, error) {
	var n int64
	if err := s.DB.Model(&models.TokenState{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// LoadWorld 从数据库重建全部合约对象，事件写入新的事件日志
func (s *Store) LoadWorld() (*state.World, error) {
	var ts models.TokenState
	if err := s.DB.First(&ts, singletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}

	evs := events.NewLog()

	ledger, err := s.loadToken(&ts, evs)
	if err != nil {
		return nil, err
	}

	registry, err := s.loadSchedules()
	if err != nil {
		return nil, err
	}

	f, err := s.loadFactory(ledger, registry, evs)
	if err != nil {
		return nil, err
	}

	nonces, err := s.loadNonces()
	if err != nil {
		return nil, err
	}

	return &state.World{
		Token:     ledger,
		Schedules: registry,
		Factory:   f,
		Nonces:    nonces,
		Events:    evs,
	}, nil
}

func (s *Store) loadToken(ts *models.TokenState, evs *events.Log) (*token.Ledger, error) {
	addr, err := address.NewFromString(ts.Address)
	if err != nil {
		return nil, fmt.Errorf("token address: %w", err)
	}
	owner, err := parseOptionalAddress(ts.Owner)
	if err != nil {
		return nil, fmt.Errorf("token owner: %w", err)
	}
	supply, err := big.FromString(ts.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("token supply: %w", err)
	}

	var rows []models.TokenBalance
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	balances := make(map[address.Address]abi.TokenAmount, len(rows))
	for _, r := range rows {
		holder, err := address.NewFromString(r.Holder)
		if err != nil {
			return nil, fmt.Errorf("balance holder %q: %w", r.Holder, err)
		}
		amt, err := big.FromString(r.Balance)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", holder, err)
		}
		balances[holder] = amt
	}

	meta := token.Metadata{Name: ts.Name, Symbol: ts.Symbol, Decimals: ts.Decimals}
	return token.Restore(addr, owner, meta, supply, balances, ts.Paused, evs)
}

func (s *Store) loadSchedules() (*schedule.Registry, error) {
	var rows []models.ScheduleEntry
	if err := s.DB.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	durations := make([]int64, len(rows))
	for i, r := range rows {
		if r.ID != uint64(i) {
			return nil, fmt.Errorf("schedule table has a gap at id %d", i)
		}
		durations[i] = r.DurationSeconds
	}
	return schedule.NewRegistry(durations)
}

func (s *Store) loadFactory(ledger *token.Ledger, registry *schedule.Registry, evs *events.Log) (*factory.Factory, error) {
	var fs models.FactoryState
	if err := s.DB.First(&fs, singletonID).Error; err != nil {
		return nil, fmt.Errorf("factory state: %w", err)
	}
	addr, err := address.NewFromString(fs.Address)
	if err != nil {
		return nil, fmt.Errorf("factory address: %w", err)
	}
	owner, err := parseOptionalAddress(fs.Owner)
	if err != nil {
		return nil, fmt.Errorf("factory owner: %w", err)
	}

	f, err := factory.Restore(addr, owner, ledger, registry, fs.Start, fs.Created, evs)
	if err != nil {
		return nil, err
	}

	var rows []models.VestingWallet
	if err := s.DB.Order("seq").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		w, err := restoreWallet(r, ledger, evs)
		if err != nil {
			return nil, err
		}
		if err := f.Adopt(r.ScheduleID, w); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func restoreWallet(r models.VestingWallet, ledger *token.Ledger, evs *events.Log) (*vesting.Wallet, error) {
	addr, err := address.NewFromString(r.Address)
	if err != nil {
		return nil, fmt.Errorf("wallet address: %w", err)
	}
	beneficiary, err := address.NewFromString(r.Beneficiary)
	if err != nil {
		return nil, fmt.Errorf("wallet %s beneficiary: %w", addr, err)
	}
	released, err := big.FromString(r.Released)
	if err != nil {
		return nil, fmt.Errorf("wallet %s released: %w", addr, err)
	}
	return vesting.Restore(addr, ledger, beneficiary, r.Start, r.Duration, released, evs)
}

func (s *Store) loadNonces() (map[address.Address]uint64, error) {
	var rows []models.AccountNonce
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[address.Address]uint64, len(rows))
	for _, r := range rows {
		a, err := address.NewFromString(r.Address)
		if err != nil {
			return nil, fmt.Errorf("nonce account %q: %w", r.Address, err)
		}
		out[a] = r.Nonce
	}
	return out, nil
}

// parseOptionalAddress 空字符串表示已放弃所有权
func parseOptionalAddress(s string) (address.Address, error) {
	if s == "" {
		return address.Undef, nil
	}
	return address.NewFromString(s)
}

func formatOptionalAddress(a address.Address) string {
	if a == address.Undef {
		return ""
	}
	return a.String()
}

// EventMeta 事件所属的消息及执行时间
type EventMeta struct {
	MsgCid    string
	Timestamp uint64
}

// SaveWorld 在一个事务中写入全部状态并追加已发出的事件（取出后事件日志清空）
// 事务失败时数据库保持不变，w 应被丢弃
func (s *Store) SaveWorld(w *state.World, meta EventMeta) error {
	pending := w.Events.Drain()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		upsert := func(v interface{}) error {
			return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(v).Error
		}

		md := w.Token.Metadata()
		if err := upsert(&models.TokenState{
			ID:          singletonID,
			Address:     w.Token.Address().String(),
			Owner:       formatOptionalAddress(w.Token.Ownership().Owner()),
			Name:        md.Name,
			Symbol:      md.Symbol,
			Decimals:    md.Decimals,
			TotalSupply: w.Token.TotalSupply().String(),
			Paused:      w.Token.Paused(),
		}); err != nil {
			return fmt.Errorf("saving token state: %w", err)
		}

		if holders := w.Token.Holders(); len(holders) > 0 {
			rows := make([]models.TokenBalance, 0, len(holders))
			for _, h := range holders {
				rows = append(rows, models.TokenBalance{Holder: h.Address.String(), Balance: h.Balance.String()})
			}
			if err := upsert(&rows); err != nil {
				return fmt.Errorf("saving balances: %w", err)
			}
		}

		if entries := w.Schedules.Entries(); len(entries) > 0 {
			rows := make([]models.ScheduleEntry, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, models.ScheduleEntry{ID: e.ID, DurationSeconds: int64(e.DurationSeconds)})
			}
			if err := upsert(&rows); err != nil {
				return fmt.Errorf("saving schedules: %w", err)
			}
		}

		if err := upsert(&models.FactoryState{
			ID:      singletonID,
			Address: w.Factory.Address().String(),
			Owner:   formatOptionalAddress(w.Factory.Owner()),
			Start:   w.Factory.Start(),
			Created: w.Factory.Created(),
		}); err != nil {
			return fmt.Errorf("saving factory state: %w", err)
		}

		if entries := w.Factory.Entries(); len(entries) > 0 {
			rows := make([]models.VestingWallet, 0, len(entries))
			for i, e := range entries {
				rows = append(rows, models.VestingWallet{
					Address:     e.Wallet.Address().String(),
					Seq:         uint64(i),
					Beneficiary: e.Beneficiary.String(),
					ScheduleID:  e.ScheduleID,
					Start:       e.Wallet.Start(),
					Duration:    e.Wallet.Duration(),
					Released:    e.Wallet.Released().String(),
				})
			}
			if err := upsert(&rows); err != nil {
				return fmt.Errorf("saving vesting wallets: %w", err)
			}
		}

		if len(w.Nonces) > 0 {
			rows := make([]models.AccountNonce, 0, len(w.Nonces))
			for a, n := range w.Nonces {
				rows = append(rows, models.AccountNonce{Address: a.String(), Nonce: n})
			}
			if err := upsert(&rows); err != nil {
				return fmt.Errorf("saving nonces: %w", err)
			}
		}

		if len(pending) > 0 {
			rows := make([]models.Event, 0, len(pending))
			for _, ev := range pending {
				attrs, err := json.Marshal(ev.Attrs())
				if err != nil {
					return err
				}
				rows = append(rows, models.Event{
					MsgCid:    meta.MsgCid,
					Name:      ev.Name(),
					Emitter:   ev.Emitter().String(),
					Attrs:     string(attrs),
					Timestamp: meta.Timestamp,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("saving events: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("SaveWorld: %v", err)
		return err
	}

	log.Debugf("SaveWorld: committed state and %d events for %s", len(pending), meta.MsgCid)
	return nil
}

// EventFilter 事件查询条件，零值表示不过滤
type EventFilter struct {
	Name    string
	Emitter string
	MsgCid  string
	Limit   int
}

// ListEvents 按写入顺序返回事件
func (s *Store) ListEvents(f EventFilter) ([]models.Event, error) {
	q := s.DB.Model(&models.Event{})
	if f.Name != "" {
		q = q.Where("name = ?", f.Name)
	}
	if f.Emitter != "" {
		q = q.Where("emitter = ?", f.Emitter)
	}
	if f.MsgCid != "" {
		q = q.Where("msg_cid = ?", f.MsgCid)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.Event
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
