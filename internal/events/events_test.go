package events

import (
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
)

func mustActor(t *testing.T, s string) address.Address {
	t.Helper()
	a, err := address.NewActorAddress([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestLogKeepsOrderAndDrains(t *testing.T) {
	tok := mustActor(t, "token")
	wallet := mustActor(t, "wallet")

	l := NewLog()
	l.Emit(Transfer{Token: tok, From: wallet, To: tok, Amount: big.NewInt(5)})
	l.Emit(ERC20Released{Wallet: wallet, Token: tok, Amount: big.NewInt(5)})
	l.Emit(Paused{Token: tok, Account: tok})

	got := l.Events()
	if len(got) != 3 || got[0].Name() != "Transfer" || got[1].Name() != "ERC20Released" {
		t.Fatalf("got %v", got)
	}
	if got[1].Emitter() != wallet || got[1].Attrs()["amount"] != "5" {
		t.Fatalf("release event: emitter %s attrs %v", got[1].Emitter(), got[1].Attrs())
	}

	got[0] = nil
	if l.Events()[0] == nil {
		t.Fatal("Events must return a copy")
	}

	l.Emit(Unpaused{Token: tok, Account: tok})
	if drained := l.Drain(); len(drained) != 4 || drained[3].Name() != "Unpaused" {
		t.Fatalf("drained %v", drained)
	}
	if left := l.Events(); len(left) != 0 {
		t.Fatalf("%d events left after drain", len(left))
	}
}

func TestWalletCreatedAttrs(t *testing.T) {
	f := mustActor(t, "factory")
	ev := WalletCreated{Factory: f, Beneficiary: f, ScheduleID: 7, Wallet: f}
	if ev.Emitter() != f || ev.Attrs()["scheduleId"] != "7" {
		t.Fatalf("got %v", ev.Attrs())
	}
	Discard.Emit(ev)
}
