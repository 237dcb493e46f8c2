package qaa

import "testing"

func TestBandRoleResolution(t *testing.T) {
	tests := []struct {
		name    string
		centers []float64
		want    map[BandRole]float64
	}{
		{
			name:    "canonical SeaWiFS set",
			centers: []float64{410, 443, 490, 555, 670},
			want: map[BandRole]float64{
				LowBlueBand: 410, BlueBand: 443, GreenBand: 490,
				ReferenceBand: 555, RedBand: 670,
			},
		},
		{
			name:    "MODIS native centers",
			centers: []float64{412, 443, 488, 547, 667},
			want: map[BandRole]float64{
				LowBlueBand: 412, BlueBand: 443, GreenBand: 488,
				ReferenceBand: 547, RedBand: 667,
			},
		},
		{
			name:    "extra bands resolve around them",
			centers: []float64{410, 443, 490, 510, 555, 670},
			want: map[BandRole]float64{
				LowBlueBand: 410, BlueBand: 443, GreenBand: 490,
				ReferenceBand: 555, RedBand: 670,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := NewWavelengthSet(tt.centers)
			if err != nil {
				t.Fatalf("NewWavelengthSet: %v", err)
			}
			for role, wantWl := range tt.want {
				if got := ws.Center(ws.Index(role)); got != wantWl {
					t.Errorf("%v resolved to %.0f nm, want %.0f", role, got, wantWl)
				}
			}
		})
	}
}

func TestNewWavelengthSetRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		centers []float64
	}{
		{"too few bands", []float64{443, 490, 555, 670}},
		{"not increasing", []float64{410, 490, 443, 555, 670}},
		{"duplicate center", []float64{410, 443, 443, 555, 670}},
		{"role collision", []float64{440, 441, 442, 443, 670}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWavelengthSet(tt.centers); err == nil {
				t.Errorf("expected error for %v", tt.centers)
			}
		})
	}
}

func TestCentersReturnsCopy(t *testing.T) {
	ws := DefaultWavelengths()
	c := ws.Centers()
	c[0] = 999
	if ws.Center(0) == 999 {
		t.Error("Centers leaked internal storage")
	}
}
