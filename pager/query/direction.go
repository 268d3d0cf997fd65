package query

import "fmt"

type SortDirection byte

const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		panic(fmt.Sprintf("unknown sort direction %d", byte(d)))
	}
}

// SQL is the keyword form used when the sort is pushed into the engine.
func (d SortDirection) SQL() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

func (d SortDirection) Toggle() SortDirection {
	if d == Asc {
		return Desc
	}
	return Asc
}
