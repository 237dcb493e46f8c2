package vgpm

import (
	"math"
	"testing"
)

func TestPrimaryProduction(t *testing.T) {
	tests := []struct {
		name   string
		in     Inputs
		wantOK bool
	}{
		{"typical mid-latitude pixel", Inputs{ChlorA: 1.0, SST: 15.0, Kd490: 0.1}, true},
		{"cold oligotrophic pixel", Inputs{ChlorA: 0.05, SST: 2.0, Kd490: 0.03}, true},
		{"missing chlorophyll", Inputs{ChlorA: math.NaN(), SST: 15.0, Kd490: 0.1}, false},
		{"missing sst", Inputs{ChlorA: 1.0, SST: math.NaN(), Kd490: 0.1}, false},
		{"missing kd", Inputs{ChlorA: 1.0, SST: 15.0, Kd490: math.NaN()}, false},
		{"zero chlorophyll", Inputs{ChlorA: 0, SST: 15.0, Kd490: 0.1}, false},
		{"negative attenuation", Inputs{ChlorA: 1.0, SST: 15.0, Kd490: -0.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp, ok := PrimaryProduction(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && pp <= 0 {
				t.Errorf("pp = %v, want positive", pp)
			}
		})
	}
}

func TestPrimaryProductionReferenceValue(t *testing.T) {
	in := Inputs{ChlorA: 1.0, SST: 15.0, Kd490: 0.1}
	pp, ok := PrimaryProduction(in)
	if !ok {
		t.Fatal("expected a value")
	}
	want := 0.66125 * OptimalRate(15.0) * 1.0 * EuphoticDepth(0.1)
	if math.Abs(pp-want) > 1e-12 {
		t.Errorf("pp = %v, want %v", pp, want)
	}
}

func TestEuphoticDepth(t *testing.T) {
	if got := EuphoticDepth(0.046); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("EuphoticDepth(0.046) = %v, want 100", got)
	}
}

func TestOptimalRateAtZero(t *testing.T) {
	// The SST polynomial vanishes at 0 °C, leaving the leading factor.
	if got := OptimalRate(0.0); math.Abs(got-1.54) > 1e-12 {
		t.Errorf("Pb_opt(0) = %v, want 1.54", got)
	}
	if OptimalRate(15.0) <= 0 {
		t.Error("Pb_opt must stay positive")
	}
}
