package ops

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCompareValuesScalars(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", int64(1), int64(2), -1},
		{"ints equal", int64(5), int64(5), 0},
		{"uints", uint64(9), uint64(3), 1},
		{"int vs uint", int64(-1), uint64(0), -1},
		{"uint vs int", uint64(3), int64(-7), 1},
		{"int vs float", int64(2), float64(2.5), -1},
		{"strings", "alpha", "beta", -1},
		{"bools", false, true, -1},
		{"nil first", nil, int64(0), -1},
		{"both nil", nil, nil, 0},
		{"blobs", []byte{1, 2}, []byte{1, 3}, -1},
		{"durations", time.Second, time.Minute, -1},
	}

	for _, c := range cases {
		if got := CompareValues(c.a, c.b); got != c.want {
			t.Errorf("%s: CompareValues(%v, %v) = %d, want %d", c.name, c.a, c.b, got, c.want)
		}
	}
}

func TestCompareValuesDecimalsStayExact(t *testing.T) {
	a := decimal.RequireFromString("0.1")
	b := decimal.RequireFromString("0.10000000000000000001")

	if got := CompareValues(a, b); got != -1 {
		t.Errorf("exact decimals compared as %d", got)
	}

	// a decimal against a machine integer lifts the integer
	if got := CompareValues(decimal.RequireFromString("2.5"), int64(2)); got != 1 {
		t.Errorf("decimal vs int = %d", got)
	}
}

func TestCompareValuesTime(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	if CompareValues(earlier, later) != -1 || CompareValues(later, earlier) != 1 {
		t.Errorf("times out of order")
	}
}

func TestCompareValuesMixedClasses(t *testing.T) {
	// cross-class pairs order by class rank, both ways consistently
	pairs := [][2]any{
		{true, int64(0)},
		{int64(1), "1"},
		{"z", []byte{0}},
	}
	for _, p := range pairs {
		fwd := CompareValues(p[0], p[1])
		rev := CompareValues(p[1], p[0])
		if fwd != -1 || rev != 1 {
			t.Errorf("class ordering of (%T, %T): fwd=%d rev=%d", p[0], p[1], fwd, rev)
		}
	}
}

func TestCompareFloatsNaN(t *testing.T) {
	if CompareValues(math.NaN(), float64(0)) != -1 {
		t.Errorf("NaN should sort below numbers")
	}
	if CompareValues(math.NaN(), math.NaN()) != 0 {
		t.Errorf("NaN should tie with itself")
	}
}

func TestGetMaxMin(t *testing.T) {
	bounds := GetMaxMin([]int64{5, -2, 18, 0})
	if bounds.Min != -2 || bounds.Max != 18 {
		t.Errorf("bounds = %+v", bounds)
	}

	bounds.Morph(Bounds[int64]{Min: -10, Max: 4})
	if bounds.Min != -10 || bounds.Max != 18 {
		t.Errorf("morphed bounds = %+v", bounds)
	}

	if bounds.Spread() != 28 {
		t.Errorf("spread = %d", bounds.Spread())
	}
}
