package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/filecoin-project/go-address"

	"legend-vesting/internal/chain/types"
	crypto2 "legend-vesting/internal/crypto"
	"legend-vesting/internal/schedule"
	"legend-vesting/internal/state"
	"legend-vesting/internal/token"
)

const start = 1_700_000_000

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "vesting.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.InitEncryptionKey("test-seed", crypto2.FastKDFParams()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoadBeforeInit(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadWorld(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("got %v", err)
	}
	if ok, err := s.Initialized(); ok || err != nil {
		t.Fatalf("got %v, %v", ok, err)
	}
}

func TestWorldRoundTrip(t *testing.T) {
	s := openTestStore(t)

	owner, _ := address.NewIDAddress(100)
	bob, _ := address.NewIDAddress(101)

	w, err := state.Genesis(state.GenesisParams{
		Owner:     owner,
		Start:     start,
		Metadata:  token.DefaultMetadata(),
		Supply:    types.FromLegend(token.DefaultSupply),
		Durations: schedule.DefaultDurations(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveWorld(w, EventMeta{MsgCid: "genesis", Timestamp: start}); err != nil {
		t.Fatal(err)
	}

	walletAddr, err := w.Factory.CreateWallet(owner, bob, uint64(schedule.Seed))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Token.Transfer(owner, walletAddr, types.FromLegend(1200)); err != nil {
		t.Fatal(err)
	}
	wallet, _ := w.VestingWallet(walletAddr)
	duration := wallet.Duration()
	if _, err := wallet.Release(start + duration/4); err != nil {
		t.Fatal(err)
	}
	w.BumpNonce(owner)
	if err := s.SaveWorld(w, EventMeta{MsgCid: "m1", Timestamp: start + duration/4}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadWorld()
	if err != nil {
		t.Fatal(err)
	}

	if got.Factory.GetWallet(bob, uint64(schedule.Seed)) != walletAddr {
		t.Fatal("wallet mapping lost")
	}
	if got.Factory.Created() != 1 || got.Factory.Owner() != owner {
		t.Fatalf("factory state: created %d owner %s", got.Factory.Created(), got.Factory.Owner())
	}
	restored, ok := got.VestingWallet(walletAddr)
	if !ok {
		t.Fatal("wallet not restored")
	}
	if !restored.Released().Equals(types.FromLegend(300)) {
		t.Fatalf("released %s", restored.Released())
	}
	if !got.Token.BalanceOf(bob).Equals(types.FromLegend(300)) {
		t.Fatalf("bob holds %s", got.Token.BalanceOf(bob))
	}
	if !restored.TotalAllocation().Equals(types.FromLegend(1200)) {
		t.Fatalf("allocation %s", restored.TotalAllocation())
	}
	if got.Nonce(owner) != 1 {
		t.Fatalf("nonce %d", got.Nonce(owner))
	}
	if got.Schedules.Len() != len(schedule.Tranches()) {
		t.Fatalf("%d schedules", got.Schedules.Len())
	}

	released, err := s.ListEvents(EventFilter{Name: "ERC20Released"})
	if err != nil {
		t.Fatal(err)
	}
	if len(released) != 1 || released[0].MsgCid != "m1" || released[0].Emitter != walletAddr.String() {
		t.Fatalf("unexpected release events %+v", released)
	}
	all, _ := s.ListEvents(EventFilter{})
	if len(all) < 5 {
		t.Fatalf("expected genesis, creation, funding and release events, got %d", len(all))
	}
}

func TestRenouncedOwnerSurvivesReload(t *testing.T) {
	s := openTestStore(t)
	owner, _ := address.NewIDAddress(100)

	w, err := state.Genesis(state.GenesisParams{
		Owner:     owner,
		Start:     start,
		Metadata:  token.DefaultMetadata(),
		Supply:    types.FromLegend(10),
		Durations: []int64{0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Factory.Ownership().RenounceOwnership(owner); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveWorld(w, EventMeta{MsgCid: "genesis"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadWorld()
	if err != nil {
		t.Fatal(err)
	}
	if got.Factory.Owner() != address.Undef {
		t.Fatalf("owner %s", got.Factory.Owner())
	}
	if got.Token.Ownership().Owner() != owner {
		t.Fatal("token ownership is independent of the factory")
	}
}

func TestKeystore(t *testing.T) {
	s := openTestStore(t)
	alice, _ := address.NewIDAddress(1)
	ki := types.KeyInfo{Type: types.KTSecp256k1, PrivateKey: []byte{1, 2, 3}}

	if _, err := s.GetWalletKey(alice); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("got %v", err)
	}
	if err := s.SaveWalletKey(alice, ki); err != nil {
		t.Fatal(err)
	}
	ki.PrivateKey = []byte{4, 5, 6}
	if err := s.SaveWalletKey(alice, ki); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetWalletKey(alice)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != types.KTSecp256k1 || string(got.PrivateKey) != string([]byte{4, 5, 6}) {
		t.Fatalf("got %+v", got)
	}

	list, err := s.GetAllWalletAddresses()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Address != alice.String() || len(list[0].EncryptedKey) != 0 {
		t.Fatalf("got %+v", list)
	}

	if err := s.DeleteWalletKey(alice); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteWalletKey(alice); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLockedKeystore(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "vesting.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	alice, _ := address.NewIDAddress(1)
	if err := s.SaveWalletKey(alice, types.KeyInfo{Type: types.KTBLS}); !errors.Is(err, ErrLocked) {
		t.Fatalf("got %v", err)
	}
}
