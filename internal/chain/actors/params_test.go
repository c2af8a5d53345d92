package actors

import (
	"testing"

	"github.com/filecoin-project/go-address"

	"legend-vesting/internal/chain/types"
)

func TestCreateWalletParamsRoundTrip(t *testing.T) {
	bob, err := address.NewIDAddress(101)
	if err != nil {
		t.Fatal(err)
	}
	in := &CreateWalletParams{Beneficiary: bob, ScheduleID: 9}

	data, err := SerializeParams(in)
	if err != nil {
		t.Fatal(err)
	}
	var out CreateWalletParams
	if err := DeserializeParams(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != *in {
		t.Fatalf("got %+v, want %+v", out, *in)
	}
}

func TestTransferParamsRoundTrip(t *testing.T) {
	bob, _ := address.NewIDAddress(101)
	in := &TransferParams{To: bob, Amount: types.FromLegend(12)}

	data, err := SerializeParams(in)
	if err != nil {
		t.Fatal(err)
	}
	var out TransferParams
	if err := DeserializeParams(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.To != bob || !out.Amount.Equals(in.Amount) {
		t.Fatalf("got %+v", out)
	}
}

func TestDeserializeParamsRejectsGarbage(t *testing.T) {
	var out OwnerParams
	if err := DeserializeParams(nil, &out); err == nil {
		t.Fatal("expected error for empty params")
	}

	bob, _ := address.NewIDAddress(101)
	data, _ := SerializeParams(&OwnerParams{NewOwner: bob})
	if err := DeserializeParams(append(data, 0x00), &out); err == nil {
		t.Fatal("expected error for trailing bytes")
	}
	if err := DeserializeParams(data, &CreateWalletParams{}); err == nil {
		t.Fatal("expected error for wrong params type")
	}
}
