package remote

import (
	"cmp"
	"sort"
	"time"
)

type SortField string

const (
	SortPriority  SortField = "priority"
	SortDueDate   SortField = "due_date"
	SortCreatedAt SortField = "created_at"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type NullPlacement string

const (
	NullsFirst NullPlacement = "first"
	NullsLast  NullPlacement = "last"
)

// SortKey is one link of the comparator chain. Nulls places missing values
// regardless of Order; the zero value means last.
type SortKey struct {
	Field SortField     `yaml:"field" mapstructure:"field"`
	Order SortOrder     `yaml:"order" mapstructure:"order"`
	Nulls NullPlacement `yaml:"nulls,omitempty" mapstructure:"nulls"`
}

// Sort returns a stably sorted copy of tasks. Ties across every key keep
// their input order. Date-only due dates resolve in loc; nil means
// time.Local.
func Sort(tasks []Task, keys []SortKey, loc *time.Location) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	if len(keys) == 0 {
		return out
	}
	if loc == nil {
		loc = time.Local
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			if c := compareField(out[i], out[j], k, loc); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

func compareField(a, b Task, k SortKey, loc *time.Location) int {
	switch k.Field {
	case SortPriority:
		return directed(cmp.Compare(a.Priority, b.Priority), k.Order)
	case SortDueDate:
		at, aok := a.Due.Instant(loc)
		bt, bok := b.Due.Instant(loc)
		if c, done := compareNulls(!aok, !bok, k.Nulls); done {
			return c
		}
		return directed(at.Compare(bt), k.Order)
	case SortCreatedAt:
		if c, done := compareNulls(a.CreatedAt == "", b.CreatedAt == "", k.Nulls); done {
			return c
		}
		return directed(cmp.Compare(a.CreatedAt, b.CreatedAt), k.Order)
	}
	return 0
}

// compareNulls settles the comparison when either side is missing.
func compareNulls(aNull, bNull bool, nulls NullPlacement) (int, bool) {
	switch {
	case aNull && bNull:
		return 0, true
	case aNull:
		if nulls == NullsFirst {
			return -1, true
		}
		return 1, true
	case bNull:
		if nulls == NullsFirst {
			return 1, true
		}
		return -1, true
	}
	return 0, false
}

func directed(c int, order SortOrder) int {
	if order == Desc {
		return -c
	}
	return c
}
