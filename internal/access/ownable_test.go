package access

import (
	"errors"
	"testing"

	"github.com/filecoin-project/go-address"

	"legend-vesting/internal/events"
)

func mustID(t *testing.T, id uint64) address.Address {
	t.Helper()
	a, err := address.NewIDAddress(id)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestOwnableTransferAndRenounce(t *testing.T) {
	contract := mustID(t, 1)
	owner := mustID(t, 100)
	bob := mustID(t, 101)

	elog := events.NewLog()
	o, err := NewOwnable(contract, owner, elog)
	if err != nil {
		t.Fatal(err)
	}
	if elog.Len() != 1 {
		t.Fatalf("expected construction event, got %d events", elog.Len())
	}

	if err := o.TransferOwnership(bob, bob); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := o.TransferOwnership(owner, address.Undef); !errors.Is(err, ErrZeroOwner) {
		t.Fatalf("expected ErrZeroOwner, got %v", err)
	}
	if err := o.TransferOwnership(owner, bob); err != nil {
		t.Fatal(err)
	}
	if o.Owner() != bob || o.IsOwner(owner) {
		t.Fatalf("owner not moved: %s", o.Owner())
	}

	if err := o.RenounceOwnership(bob); err != nil {
		t.Fatal(err)
	}
	if o.IsOwner(bob) || o.IsOwner(address.Undef) {
		t.Fatal("nobody should own a renounced contract")
	}
	if err := o.CheckOwner(address.Undef); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if elog.Len() != 3 {
		t.Fatalf("expected 3 events, got %d", elog.Len())
	}
}

func TestNewOwnableRejectsZeroOwner(t *testing.T) {
	if _, err := NewOwnable(mustID(t, 1), address.Undef, nil); !errors.Is(err, ErrZeroOwner) {
		t.Fatalf("expected ErrZeroOwner, got %v", err)
	}
}
