package token

import (
	"errors"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"

	"legend-vesting/internal/access"
	"legend-vesting/internal/chain/types"
	"legend-vesting/internal/events"
)

func testAddrs(t *testing.T) (tokenAddr, owner, bob address.Address) {
	t.Helper()
	var err error
	if tokenAddr, err = address.NewActorAddress([]byte("legend")); err != nil {
		t.Fatal(err)
	}
	if owner, err = address.NewIDAddress(100); err != nil {
		t.Fatal(err)
	}
	if bob, err = address.NewIDAddress(101); err != nil {
		t.Fatal(err)
	}
	return tokenAddr, owner, bob
}

func TestLegendMetadata(t *testing.T) {
	meta := DefaultMetadata()
	if meta.Name != "Legend" || meta.Symbol != "LEGEND" || meta.Decimals != 18 {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestNewMintsSupplyToOwner(t *testing.T) {
	tokenAddr, owner, bob := testAddrs(t)
	supply := types.FromLegend(DefaultSupply)

	elog := events.NewLog()
	l, err := New(tokenAddr, owner, DefaultMetadata(), supply, elog)
	if err != nil {
		t.Fatal(err)
	}
	if !l.BalanceOf(owner).Equals(supply) {
		t.Fatalf("owner balance %s, want %s", l.BalanceOf(owner), supply)
	}
	if l.BalanceOf(bob).Sign() != 0 {
		t.Fatal("bob should hold nothing")
	}
	if !l.TotalSupply().Equals(supply) {
		t.Fatal("total supply mismatch")
	}
	// OwnershipTransferred + mint Transfer
	if elog.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", elog.Len())
	}
}

func TestNewRejectsNonContractAddress(t *testing.T) {
	_, owner, bob := testAddrs(t)
	if _, err := New(bob, owner, DefaultMetadata(), big.NewInt(1), nil); !errors.Is(err, ErrNotContract) {
		t.Fatalf("expected ErrNotContract, got %v", err)
	}
}

func TestTransfer(t *testing.T) {
	tokenAddr, owner, bob := testAddrs(t)
	l, err := New(tokenAddr, owner, DefaultMetadata(), big.NewInt(1000), nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		from    address.Address
		to      address.Address
		amount  int64
		wantErr error
	}{
		{"ok", owner, bob, 400, nil},
		{"zero amount", owner, bob, 0, nil},
		{"exceeds balance", bob, owner, 401, ErrInsufficientBalance},
		{"to zero address", owner, address.Undef, 1, ErrZeroAddress},
		{"negative", owner, bob, -1, ErrNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Transfer(tt.from, tt.to, big.NewInt(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	if !l.BalanceOf(owner).Equals(big.NewInt(600)) || !l.BalanceOf(bob).Equals(big.NewInt(400)) {
		t.Fatalf("unexpected balances: owner %s bob %s", l.BalanceOf(owner), l.BalanceOf(bob))
	}
}

func TestPauseBlocksTransfers(t *testing.T) {
	tokenAddr, owner, bob := testAddrs(t)
	l, err := New(tokenAddr, owner, DefaultMetadata(), big.NewInt(1000), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Pause(bob); !errors.Is(err, access.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := l.Pause(owner); err != nil {
		t.Fatal(err)
	}
	if !l.Paused() {
		t.Fatal("expected paused")
	}
	if err := l.Pause(owner); !errors.Is(err, ErrAlreadyPaused) {
		t.Fatalf("expected ErrAlreadyPaused, got %v", err)
	}
	if err := l.Transfer(owner, bob, big.NewInt(1)); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	if l.BalanceOf(bob).Sign() != 0 {
		t.Fatal("paused transfer moved funds")
	}

	if err := l.Unpause(owner); err != nil {
		t.Fatal(err)
	}
	if err := l.Unpause(owner); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
	if err := l.Transfer(owner, bob, big.NewInt(1)); err != nil {
		t.Fatal(err)
	}
}

func TestRestoreChecksConservation(t *testing.T) {
	tokenAddr, owner, bob := testAddrs(t)
	balances := map[address.Address]big.Int{
		owner: big.NewInt(700),
		bob:   big.NewInt(300),
	}
	l, err := Restore(tokenAddr, owner, DefaultMetadata(), big.NewInt(1000), balances, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Paused() || !l.BalanceOf(bob).Equals(big.NewInt(300)) {
		t.Fatal("state not restored")
	}
	if len(l.Holders()) != 2 {
		t.Fatalf("expected 2 holders, got %d", len(l.Holders()))
	}

	if _, err := Restore(tokenAddr, owner, DefaultMetadata(), big.NewInt(999), balances, false, nil); !errors.Is(err, ErrSupplyMismatch) {
		t.Fatalf("expected ErrSupplyMismatch, got %v", err)
	}
}
