package contracts

import (
	"fmt"
	"time"
)

// JoinPolicy decides what happens to buckets missing from one of the joined tables
type JoinPolicy string

const (
	// JoinInner keeps only buckets present in every table
	JoinInner JoinPolicy = "inner"
	// JoinOuter keeps the union of buckets and fills missing cells with 0
	JoinOuter JoinPolicy = "outer"
)

// ParseJoinPolicy converts a flag value into a JoinPolicy
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch JoinPolicy(s) {
	case "", JoinInner:
		return JoinInner, nil
	case JoinOuter:
		return JoinOuter, nil
	default:
		return "", ValidationError{"join", fmt.Sprintf("unknown join policy %q (valid: inner, outer)", s)}
	}
}

// FeatureMeta describes how a feature table was produced
type FeatureMeta struct {
	RunID       string     `json:"run_id"`
	Country     Country    `json:"country"`
	Subdivision string     `json:"subdivision,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Period      PeriodSpec `json:"-"`
	Join        JoinPolicy `json:"join"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FeatureTable is the joined holiday + week dummy + month dummy table
type FeatureTable struct {
	Meta  FeatureMeta
	Table *Table
}

// DateColumn is the header of the date key column in exports
const DateColumn = "date"

// Header returns the export header: date followed by every feature column
func (f *FeatureTable) Header() []string {
	return append([]string{DateColumn}, f.Table.Columns()...)
}
