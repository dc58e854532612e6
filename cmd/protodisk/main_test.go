package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"dt=0.1,0.05", "thickness= 0, 0.2 ,0.4"})
	if err != nil {
		t.Fatalf("parseGrid() error = %v", err)
	}
	if len(names) != 2 || names[0] != "dt" || names[1] != "thickness" {
		t.Errorf("names = %v, want [dt thickness]", names)
	}
	if len(ranges[1]) != 3 || ranges[1][1] != 0.2 {
		t.Errorf("ranges[1] = %v, want [0 0.2 0.4]", ranges[1])
	}

	for _, bad := range []string{"dt", "=1,2", "dt=", "dt=1,x"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("parseGrid(%q) = nil error, want error", bad)
		}
	}
}

func TestResolveConfig_FlagsOverridePreset(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addDiskFlags(cmd)
	preset = "heavy"
	defer func() { preset = "" }()

	if err := cmd.Flags().Set("dt", "0.2"); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolveConfig() error = %v", err)
	}
	if cfg.Dt != 0.2 {
		t.Errorf("Dt = %v, want 0.2", cfg.Dt)
	}
	if cfg.Mass != 80 {
		t.Errorf("Mass = %v, want preset value 80", cfg.Mass)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addDiskFlags(cmd)

	preset = "missing"
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("unknown preset accepted")
	}
	preset = ""

	if err := cmd.Flags().Set("fraction", "1.5"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("fraction 1.5 accepted")
	}
}
