package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestParseRawLengthStr(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"8%", Length{Value: 8, Unit: UnitPercent}},
		{" 2px ", Length{Value: 2, Unit: UnitPX}},
		{"0.6", Length{Value: 0.6, Unit: UnitNone}},
		{"-25%", Length{Value: -25, Unit: UnitPercent}},
		{"", Length{}},
		{"abc", Length{}},
	}
	for _, c := range cases {
		if got := ParseRawLengthStr(c.in); got != c.want {
			t.Fatalf("ParseRawLengthStr(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestUnitToString(t *testing.T) {
	if UnitToString(UnitPX) != "px" || UnitToString(UnitPercent) != "%" || UnitToString(UnitNone) != "" {
		t.Fatalf("UnitToString 输出不符合预期")
	}
}
