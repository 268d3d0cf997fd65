package ops

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// Compare is the usual three-way ordering over any ordered scalar.
func Compare[T constraints.Ordered](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Value class ranks. Cells of different classes order by rank so that a
// mixed column still sorts deterministically.
const (
	classBool = iota
	classNumber
	classDuration
	classTime
	classString
	classBlob
	classOther
)

func classOf(v any) int {
	switch v.(type) {
	case bool:
		return classBool
	case int64, uint64, float64, decimal.Decimal:
		return classNumber
	case time.Duration:
		return classDuration
	case time.Time:
		return classTime
	case string:
		return classString
	case []byte:
		return classBlob
	default:
		return classOther
	}
}

// CompareValues orders two materialized cells. Nil sorts before everything,
// numbers compare across their concrete types, anything unordered falls back
// to its printed form. Exact types stay exact: two decimals never go through
// a float.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0
		}
		if a == nil {
			return -1
		}
		return 1
	}

	ca := classOf(a)
	cb := classOf(b)
	if ca != cb {
		return Compare(ca, cb)
	}

	switch ca {
	case classBool:
		av := a.(bool)
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1

	case classNumber:
		return compareNumbers(a, b)

	case classDuration:
		return Compare(a.(time.Duration), b.(time.Duration))

	case classTime:
		return a.(time.Time).Compare(b.(time.Time))

	case classString:
		return Compare(a.(string), b.(string))

	case classBlob:
		return bytes.Compare(a.([]byte), b.([]byte))

	default:
		return Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func compareNumbers(a, b any) int {
	ad, aDec := a.(decimal.Decimal)
	bd, bDec := b.(decimal.Decimal)
	if aDec && bDec {
		return ad.Cmp(bd)
	}
	if aDec || bDec {
		// lift the other side, decimals never round
		if !aDec {
			ad = liftToDecimal(a)
		}
		if !bDec {
			bd = liftToDecimal(b)
		}
		return ad.Cmp(bd)
	}

	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		return Compare(ai, bi)
	}

	au, aUint := a.(uint64)
	bu, bUint := b.(uint64)
	if aUint && bUint {
		return Compare(au, bu)
	}

	if aInt && bUint {
		if ai < 0 {
			return -1
		}
		return Compare(uint64(ai), bu)
	}
	if aUint && bInt {
		return -CompareValues(b, a)
	}

	return compareFloats(toFloat(a), toFloat(b))
}

func liftToDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n)
	case uint64:
		return decimal.NewFromUint64(n)
	case float64:
		return decimal.NewFromFloat(n)
	default:
		return decimal.Decimal{}
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func compareFloats(a, b float64) int {
	// NaN sorts below every number, and equal to itself
	aNan := math.IsNaN(a)
	bNan := math.IsNaN(b)
	if aNan || bNan {
		if aNan && bNan {
			return 0
		}
		if aNan {
			return -1
		}
		return 1
	}
	return Compare(a, b)
}
