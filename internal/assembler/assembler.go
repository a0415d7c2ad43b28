// Package assembler joins holiday and dummy tables on their date key.
package assembler

import (
	"fmt"
	"sort"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
)

// Join combines the holiday, week dummy and month dummy tables.
// Weeks and months are joined first, then holidays onto the result, so
// columns come out as holidays, week dummies, month dummies.
func Join(policy contracts.JoinPolicy, holidays, weeks, months *contracts.Table) (*contracts.Table, error) {
	dummies, err := Pair(policy, weeks, months)
	if err != nil {
		return nil, err
	}
	return Pair(policy, holidays, dummies)
}

// Pair joins two tables on the date key under policy
func Pair(policy contracts.JoinPolicy, left, right *contracts.Table) (*contracts.Table, error) {
	for _, name := range right.Columns() {
		if left.HasColumn(name) {
			return nil, fmt.Errorf("%w: column %q present on both sides of the join", contracts.ErrDataShape, name)
		}
	}

	var dates []time.Time
	switch policy {
	case contracts.JoinInner, "":
		dates = intersect(left, right)
	case contracts.JoinOuter:
		dates = union(left, right)
	default:
		return nil, contracts.ValidationError{Field: "join", Message: fmt.Sprintf("unknown join policy %q", policy)}
	}

	out, err := contracts.NewTable(dates)
	if err != nil {
		return nil, err
	}
	if err := copyColumns(out, left); err != nil {
		return nil, err
	}
	if err := copyColumns(out, right); err != nil {
		return nil, err
	}
	return out, nil
}

func intersect(left, right *contracts.Table) []time.Time {
	var dates []time.Time
	for _, d := range left.Dates() {
		if _, ok := right.IndexOf(d); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

func union(left, right *contracts.Table) []time.Time {
	seen := make(map[time.Time]struct{}, left.Len()+right.Len())
	var dates []time.Time
	for _, t := range []*contracts.Table{left, right} {
		for _, d := range t.Dates() {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// copyColumns reindexes src onto dst's dates, filling absent rows with 0
func copyColumns(dst, src *contracts.Table) error {
	rows := make([]int, dst.Len())
	for i := range rows {
		rows[i] = -1
		if j, ok := src.IndexOf(dst.Date(i)); ok {
			rows[i] = j
		}
	}

	for _, name := range src.Columns() {
		col := make([]int, dst.Len())
		for i, j := range rows {
			if j >= 0 {
				col[i] = src.Value(j, name)
			}
		}
		if err := dst.AddColumn(name, col); err != nil {
			return err
		}
	}
	return nil
}
