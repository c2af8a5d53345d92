package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	crypto2 "legend-vesting/internal/crypto"
	"legend-vesting/internal/schedule"
	"legend-vesting/internal/token"
)

func resetConfig(t *testing.T) {
	t.Helper()
	saved := VestingConfig
	t.Cleanup(func() { VestingConfig = saved })
	VestingConfig.Database = nil
	VestingConfig.Security = nil
	VestingConfig.Token = nil
	VestingConfig.Vesting = nil
}

func TestDefaults(t *testing.T) {
	resetConfig(t)
	t.Chdir(t.TempDir())

	if err := Load(""); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != token.DefaultMetadata() || cfg.Supply != token.DefaultSupply {
		t.Fatalf("token defaults: %+v supply %d", cfg.Token, cfg.Supply)
	}
	if len(cfg.Durations) != len(schedule.DefaultDurations()) {
		t.Fatalf("got %d durations", len(cfg.Durations))
	}
	if cfg.KDF != crypto2.DefaultKDFParams() || cfg.Seed != "" {
		t.Fatal("security defaults not applied")
	}
}

func TestLoadFromConfigsDir(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	t.Chdir(dir)

	body := `
[Database]
Path = "data/vesting.db"

[Security]
Seed = "correct horse"
FastKDF = true

[Token]
Symbol = "TLEG"
Supply = 5000

[Vesting]
StartOffset = 3600
Months = [1, 0, 2]
`
	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "config.toml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if ResolveConfigPath() != defaultConfigPath {
		t.Fatalf("resolved %q", ResolveConfigPath())
	}
	if err := Load(""); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DBDSN != "data/vesting.db" || cfg.Seed != "correct horse" {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.KDF != crypto2.FastKDFParams() {
		t.Fatal("FastKDF not applied")
	}
	if cfg.Token.Symbol != "TLEG" || cfg.Token.Name != token.DefaultName || cfg.Supply != 5000 {
		t.Fatalf("token %+v supply %d", cfg.Token, cfg.Supply)
	}
	want := []int64{schedule.Month, 0, 2 * schedule.Month}
	if len(cfg.Durations) != len(want) {
		t.Fatalf("durations %v", cfg.Durations)
	}
	for i := range want {
		if cfg.Durations[i] != want[i] {
			t.Fatalf("durations %v, want %v", cfg.Durations, want)
		}
	}
	if cfg.StartOffset != 3600 {
		t.Fatalf("start offset %d", cfg.StartOffset)
	}
}

func TestNegativeMonthsRejected(t *testing.T) {
	resetConfig(t)
	VestingConfig.Vesting = &Vesting{Months: []int64{3, -1}}

	if _, err := LoadConfig(); !errors.Is(err, schedule.ErrNegativeDuration) {
		t.Fatalf("got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Fatalf("got %q", got)
	}
	if got := expandPath("/abs/x.db"); got != "/abs/x.db" {
		t.Fatalf("got %q", got)
	}
}
