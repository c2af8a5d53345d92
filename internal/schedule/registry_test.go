package schedule

import (
	"errors"
	"testing"
)

func TestDefaultTrancheTable(t *testing.T) {
	r, err := NewRegistry(DefaultDurations())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		tranche Tranche
		months  uint64
	}{
		{Seed, 12},
		{Strategic, 10},
		{Private, 8},
		{Public, 4},
		{Team, 24},
		{Marketing, 36},
		{Liquidity, 0},
		{Ecosystem, 36},
		{Rewards, 24},
		{Reserve, 24},
	}
	for _, tt := range tests {
		got, err := r.GetDuration(tt.tranche.ID())
		if err != nil {
			t.Fatalf("%s: %v", tt.tranche, err)
		}
		if want := tt.months * 30 * 24 * 3600; got != want {
			t.Errorf("%s: got %d seconds, want %d", tt.tranche, got, want)
		}
	}

	if got, _ := r.GetDuration(Seed.ID()); got != 12*30*24*3600 {
		t.Errorf("SEED duration = %d", got)
	}
}

func TestGetDurationOutOfRange(t *testing.T) {
	r, err := NewRegistry(DefaultDurations())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []uint64{10, 11, 1 << 40} {
		_, err := r.GetDuration(id)
		if !errors.Is(err, ErrInvalidSchedule) {
			t.Fatalf("id %d: expected ErrInvalidSchedule, got %v", id, err)
		}
		var ise *InvalidScheduleError
		if !errors.As(err, &ise) {
			t.Fatalf("id %d: expected *InvalidScheduleError", id)
		}
		if ise.ID != id || ise.Min != 0 || ise.Max != 9 {
			t.Errorf("unexpected bounds: %+v", ise)
		}
	}
}

func TestNewRegistryValidation(t *testing.T) {
	if _, err := NewRegistry(nil); !errors.Is(err, ErrEmptyRegistry) {
		t.Fatalf("expected ErrEmptyRegistry, got %v", err)
	}
	if _, err := NewRegistry([]int64{10, -1}); !errors.Is(err, ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}

	r, err := NewRegistry([]int64{0, 1000})
	if err != nil {
		t.Fatal(err)
	}
	entries := r.Entries()
	entries[0].DurationSeconds = 99
	if d, _ := r.GetDuration(0); d != 0 {
		t.Fatal("registry must not be mutable through Entries")
	}
}

func TestParseTranche(t *testing.T) {
	tests := []struct {
		in   string
		want Tranche
	}{
		{"SEED", Seed},
		{"team", Team},
		{" Liquidity ", Liquidity},
		{"9", Reserve},
	}
	for _, tt := range tests {
		got, err := ParseTranche(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := ParseTranche("angel"); err == nil {
		t.Fatal("expected error for unknown tranche")
	}
	if Tranche(42).String() != "TRANCHE(42)" {
		t.Errorf("unexpected name: %s", Tranche(42))
	}
}
