package main

import (
	"testing"
	"time"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}

	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}

	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}

	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 1.0, want: "always"},
		{rate: 1.5, want: "always"},
		{rate: 0.0, want: "never"},
		{rate: -1, want: "never"},
		{rate: 0.25, want: "ratio"},
	}

	for _, tt := range tests {
		if got := samplerFor(tt.rate); got != tt.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestProbeTimeoutDefault(t *testing.T) {
	flag := probeCmd.Flags().Lookup("timeout")
	if flag == nil {
		t.Fatal("probe command is missing the timeout flag")
	}
	if want := (30 * time.Second).String(); flag.DefValue != want {
		t.Errorf("timeout default = %q, want %q", flag.DefValue, want)
	}
}
