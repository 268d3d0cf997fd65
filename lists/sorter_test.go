package lists

import (
	"reflect"
	"testing"

	"github.com/dot5enko/columnar-result-pager/ops"
	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/vector"
)

func TestSortByColumn(t *testing.T) {
	rows := [][]any{
		{int64(3), "c"},
		{int64(1), "a"},
		{int64(2), "b"},
	}

	sorted := Sort(rows, 0, false, ops.CompareValues)

	want := [][]any{
		{int64(1), "a"},
		{int64(2), "b"},
		{int64(3), "c"},
	}
	if !reflect.DeepEqual(sorted, want) {
		t.Errorf("sorted = %v", sorted)
	}

	// input order is preserved
	if rows[0][0] != int64(3) {
		t.Errorf("input mutated: %v", rows)
	}
}

func TestSortDescending(t *testing.T) {
	rows := [][]any{
		{"mid"}, {"zz"}, {"aa"},
	}

	sorted := Sort(rows, 0, true, ops.CompareValues)
	if sorted[0][0] != "zz" || sorted[2][0] != "aa" {
		t.Errorf("descending = %v", sorted)
	}
}

func TestSortIsStable(t *testing.T) {
	rows := [][]any{
		{int64(1), "first"},
		{int64(2), "x"},
		{int64(1), "second"},
		{int64(1), "third"},
	}

	sorted := Sort(rows, 0, false, ops.CompareValues)

	labels := []string{}
	for _, row := range sorted {
		if row[0] == int64(1) {
			labels = append(labels, row[1].(string))
		}
	}
	if !reflect.DeepEqual(labels, []string{"first", "second", "third"}) {
		t.Errorf("equal keys reordered: %v", labels)
	}
}

func TestSortNullsLastBothDirections(t *testing.T) {
	rows := [][]any{
		{nil}, {int64(2)}, {nil}, {int64(1)},
	}

	asc := Sort(rows, 0, false, ops.CompareValues)
	if asc[0][0] != int64(1) || asc[1][0] != int64(2) || asc[2][0] != nil || asc[3][0] != nil {
		t.Errorf("asc = %v", asc)
	}

	desc := Sort(rows, 0, true, ops.CompareValues)
	if desc[0][0] != int64(2) || desc[1][0] != int64(1) || desc[2][0] != nil || desc[3][0] != nil {
		t.Errorf("desc = %v", desc)
	}
}

func TestWideIntComparator(t *testing.T) {
	cmp := ComparatorFor(schema.Simple(schema.HugeIntType))

	// a value wide enough to have materialized as a string still orders
	// numerically against machine integers
	if cmp("170141183460469231731687303715884105727", int64(5)) != 1 {
		t.Errorf("wide string lost to a small int")
	}
	if cmp(int64(-3), "10") != -1 {
		t.Errorf("numeric order broken")
	}
}

func TestIntervalComparator(t *testing.T) {
	cmp := ComparatorFor(schema.Simple(schema.IntervalType))

	month := vector.Interval{Months: 1}
	days29 := vector.Interval{Days: 29}
	days31 := vector.Interval{Days: 31}

	if cmp(days29, month) != -1 {
		t.Errorf("29 days should come before a month")
	}
	if cmp(days31, month) != 1 {
		t.Errorf("31 days should come after a month")
	}
}

func TestPageBounds(t *testing.T) {
	cases := []struct {
		total, pageSize, page int
		start, end            int
		isOk                  bool
	}{
		{100, 25, 0, 0, 25, true},
		{100, 25, 3, 75, 100, true},
		{90, 25, 3, 75, 90, true}, // short tail page
		{100, 25, 4, 0, 0, false},
		{0, 25, 0, 0, 0, true}, // first page of nothing is empty
		{0, 25, 1, 0, 0, false},
		{100, 0, 0, 0, 0, false},
		{100, 25, -1, 0, 0, false},
	}

	for _, c := range cases {
		start, end, isOk := PageBounds(c.total, c.pageSize, c.page)
		if start != c.start || end != c.end || isOk != c.isOk {
			t.Errorf("PageBounds(%d,%d,%d) = (%d,%d,%v), want (%d,%d,%v)",
				c.total, c.pageSize, c.page, start, end, isOk, c.start, c.end, c.isOk)
		}
	}
}

func TestPageOf(t *testing.T) {
	rows := [][]any{{1}, {2}, {3}, {4}, {5}}

	page := PageOf(rows, 1, 2)
	if len(page) != 2 || page[0][0] != 3 {
		t.Errorf("page 1 = %v", page)
	}
	if PageOf(rows, 9, 2) != nil {
		t.Errorf("out-of-range page produced rows")
	}
}
