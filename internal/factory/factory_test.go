package factory

import (
	"errors"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"

	"legend-vesting/internal/access"
	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/events"
	"legend-vesting/internal/schedule"
	"legend-vesting/internal/token"
	"legend-vesting/internal/vesting"
)

const start = uint64(1_700_001_000)

type fixture struct {
	factory *Factory
	ledger  *token.Ledger
	elog    *events.Log
	owner   address.Address
	bob     address.Address
	alice   address.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	owner, _ := address.NewIDAddress(100)
	bob, _ := address.NewIDAddress(101)
	alice, _ := address.NewIDAddress(102)
	tokenAddr, _ := address.NewActorAddress([]byte("legend"))
	factoryAddr, _ := address.NewActorAddress([]byte("factory"))

	ledger, err := token.New(tokenAddr, owner, token.DefaultMetadata(), types.FromLegend(token.DefaultSupply), nil)
	if err != nil {
		t.Fatal(err)
	}
	registry, err := schedule.NewRegistry(schedule.DefaultDurations())
	if err != nil {
		t.Fatal(err)
	}

	elog := events.NewLog()
	f, err := New(factoryAddr, owner, ledger, registry, start, elog)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{factory: f, ledger: ledger, elog: elog, owner: owner, bob: bob, alice: alice}
}

func TestNewValidation(t *testing.T) {
	owner, _ := address.NewIDAddress(100)
	factoryAddr, _ := address.NewActorAddress([]byte("factory"))
	registry, _ := schedule.NewRegistry(schedule.DefaultDurations())
	fx := newFixture(t)

	if _, err := New(factoryAddr, owner, nil, registry, start, nil); !errors.Is(err, ErrTokenNotContract) {
		t.Fatalf("expected ErrTokenNotContract, got %v", err)
	}
	if _, err := New(factoryAddr, owner, fx.ledger, nil, start, nil); !errors.Is(err, ErrScheduleNotContract) {
		t.Fatalf("expected ErrScheduleNotContract, got %v", err)
	}
	if _, err := New(factoryAddr, address.Undef, fx.ledger, registry, start, nil); !errors.Is(err, access.ErrZeroOwner) {
		t.Fatalf("expected ErrZeroOwner, got %v", err)
	}
}

func TestAccessors(t *testing.T) {
	fx := newFixture(t)
	if fx.factory.Token().Address() != fx.ledger.Address() {
		t.Errorf("token = %s", fx.factory.Token().Address())
	}
	if fx.factory.Start() != start {
		t.Errorf("start = %d", fx.factory.Start())
	}
	if fx.factory.Owner() != fx.owner {
		t.Errorf("owner = %s", fx.factory.Owner())
	}
}

func TestNonOwnerCannotCreateWallet(t *testing.T) {
	fx := newFixture(t)
	n := fx.elog.Len()

	tests := []struct {
		name        string
		beneficiary address.Address
		scheduleID  uint64
	}{
		{"valid arguments", fx.alice, schedule.Public.ID()},
		{"invalid schedule", fx.alice, 99},
		{"zero beneficiary", address.Undef, schedule.Seed.ID()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.factory.CreateWallet(fx.bob, tt.beneficiary, tt.scheduleID)
			if !errors.Is(err, access.ErrNotOwner) {
				t.Fatalf("expected ErrNotOwner, got %v", err)
			}
		})
	}

	if fx.factory.GetWallet(fx.alice, schedule.Public.ID()) != address.Undef {
		t.Fatal("non-owner call recorded a wallet")
	}
	if fx.elog.Len() != n {
		t.Fatal("non-owner call emitted events")
	}
}

func TestCreateWalletForEveryTranche(t *testing.T) {
	fx := newFixture(t)
	seen := make(map[address.Address]bool)

	for _, tr := range schedule.Tranches() {
		if got := fx.factory.GetWallet(fx.bob, tr.ID()); got != address.Undef {
			t.Fatalf("%s: wallet exists before creation: %s", tr, got)
		}
		addr, err := fx.factory.CreateWallet(fx.owner, fx.bob, tr.ID())
		if err != nil {
			t.Fatalf("%s: %v", tr, err)
		}
		if got := fx.factory.GetWallet(fx.bob, tr.ID()); got != addr || got == address.Undef {
			t.Fatalf("%s: GetWallet = %s, want %s", tr, got, addr)
		}
		if seen[addr] {
			t.Fatalf("%s: wallet address %s reused", tr, addr)
		}
		seen[addr] = true
	}

	if len(fx.factory.Entries()) != len(schedule.Tranches()) {
		t.Fatalf("expected %d entries, got %d", len(schedule.Tranches()), len(fx.factory.Entries()))
	}
}

func TestCreateWalletForEveryBeneficiary(t *testing.T) {
	fx := newFixture(t)
	seen := make(map[address.Address]bool)

	for _, b := range []address.Address{fx.bob, fx.alice, fx.owner} {
		addr, err := fx.factory.CreateWallet(fx.owner, b, schedule.Public.ID())
		if err != nil {
			t.Fatal(err)
		}
		if seen[addr] {
			t.Fatalf("wallet address %s reused", addr)
		}
		seen[addr] = true

		w, ok := fx.factory.Wallet(addr)
		if !ok || w.Beneficiary() != b {
			t.Fatalf("wallet %s not bound to %s", addr, b)
		}
	}
}

func TestCreateWalletTwiceFails(t *testing.T) {
	fx := newFixture(t)

	first, err := fx.factory.CreateWallet(fx.owner, fx.bob, schedule.Team.ID())
	if err != nil {
		t.Fatal(err)
	}
	n := fx.elog.Len()

	_, err = fx.factory.CreateWallet(fx.owner, fx.bob, schedule.Team.ID())
	if !errors.Is(err, ErrExistingWallet) {
		t.Fatalf("expected ErrExistingWallet, got %v", err)
	}
	var ewe *ExistingWalletError
	if !errors.As(err, &ewe) || ewe.Beneficiary != fx.bob || ewe.ScheduleID != schedule.Team.ID() {
		t.Fatalf("unexpected error %v", err)
	}
	if fx.factory.GetWallet(fx.bob, schedule.Team.ID()) != first {
		t.Fatal("existing wallet was replaced")
	}
	if fx.elog.Len() != n {
		t.Fatal("failed creation emitted events")
	}
}

func TestCreateWalletInvalidSchedule(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.factory.CreateWallet(fx.owner, fx.bob, 10)
	if !errors.Is(err, schedule.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	if fx.factory.Created() != 0 {
		t.Fatal("invalid schedule created a wallet")
	}
}

func TestCreateWalletZeroBeneficiary(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.factory.CreateWallet(fx.owner, address.Undef, schedule.Seed.ID())
	if !errors.Is(err, vesting.ErrZeroBeneficiary) {
		t.Fatalf("expected ErrZeroBeneficiary, got %v", err)
	}
	if len(fx.factory.Entries()) != 0 {
		t.Fatal("zero beneficiary recorded")
	}
}

func TestSeedWalletScenario(t *testing.T) {
	fx := newFixture(t)

	addr, err := fx.factory.CreateWallet(fx.owner, fx.bob, schedule.Seed.ID())
	if err != nil {
		t.Fatal(err)
	}
	w, ok := fx.factory.Wallet(addr)
	if !ok {
		t.Fatal("wallet not deployed")
	}
	if w.Duration() != 12*30*24*3600 {
		t.Fatalf("duration = %d", w.Duration())
	}
	if w.Start() != start || w.Beneficiary() != fx.bob || w.Token().Address() != fx.ledger.Address() {
		t.Fatal("wallet not bound to factory parameters")
	}

	evs := fx.elog.Events()
	created, ok := evs[len(evs)-1].(events.WalletCreated)
	if !ok {
		t.Fatalf("unexpected last event %T", evs[len(evs)-1])
	}
	if created.Beneficiary != fx.bob || created.ScheduleID != schedule.Seed.ID() || created.Wallet != addr {
		t.Fatalf("unexpected event %+v", created)
	}

	// fund and release half way through
	allocation := types.FromLegend(1200)
	if err := fx.ledger.Transfer(fx.owner, addr, allocation); err != nil {
		t.Fatal(err)
	}
	paid, err := w.Release(start + w.Duration()/2)
	if err != nil {
		t.Fatal(err)
	}
	if !paid.Equals(big.Div(allocation, big.NewInt(2))) {
		t.Fatalf("paid %s", paid)
	}
}

func TestOwnerCanCreateWalletForThemselves(t *testing.T) {
	fx := newFixture(t)
	addr, err := fx.factory.CreateWallet(fx.owner, fx.owner, schedule.Public.ID())
	if err != nil {
		t.Fatal(err)
	}
	if addr == address.Undef {
		t.Fatal("expected wallet")
	}
}

func TestTransferredOwnershipGatesCreation(t *testing.T) {
	fx := newFixture(t)
	if err := fx.factory.Ownership().TransferOwnership(fx.owner, fx.alice); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.factory.CreateWallet(fx.owner, fx.bob, schedule.Seed.ID()); !errors.Is(err, access.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for previous owner, got %v", err)
	}
	if _, err := fx.factory.CreateWallet(fx.alice, fx.bob, schedule.Seed.ID()); err != nil {
		t.Fatal(err)
	}

	// the token keeps its own owner
	if fx.ledger.Ownership().Owner() != fx.owner {
		t.Fatal("factory ownership leaked into the token")
	}
}

func TestAdopt(t *testing.T) {
	fx := newFixture(t)
	addr, err := fx.factory.CreateWallet(fx.owner, fx.bob, schedule.Seed.ID())
	if err != nil {
		t.Fatal(err)
	}
	w, _ := fx.factory.Wallet(addr)

	registry, _ := schedule.NewRegistry(schedule.DefaultDurations())
	restored, err := Restore(fx.factory.Address(), fx.owner, fx.ledger, registry, start, fx.factory.Created(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := restored.Adopt(schedule.Seed.ID(), w); err != nil {
		t.Fatal(err)
	}
	if restored.GetWallet(fx.bob, schedule.Seed.ID()) != addr {
		t.Fatal("adopted wallet not found")
	}
	if err := restored.Adopt(schedule.Seed.ID(), w); !errors.Is(err, ErrExistingWallet) {
		t.Fatalf("expected ErrExistingWallet, got %v", err)
	}
	if _, err := restored.CreateWallet(fx.owner, fx.bob, schedule.Seed.ID()); !errors.Is(err, ErrExistingWallet) {
		t.Fatalf("expected ErrExistingWallet after restore, got %v", err)
	}

	other, _ := vesting.New(addr, fx.ledger, fx.alice, start+1, 10, nil)
	if err := restored.Adopt(schedule.Public.ID(), other); !errors.Is(err, ErrWalletMismatch) {
		t.Fatalf("expected ErrWalletMismatch, got %v", err)
	}
}
