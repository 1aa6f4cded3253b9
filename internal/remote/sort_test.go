package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortPriorityDesc(t *testing.T) {
	tasks := []Task{{ID: "p2", Priority: 2}, {ID: "p4", Priority: 4}}

	got := Sort(tasks, []SortKey{{Field: SortPriority, Order: Desc}}, time.UTC)

	assert.Equal(t, []string{"p4", "p2"}, ids(got))
	assert.Equal(t, []string{"p2", "p4"}, ids(tasks), "input is not reordered")
}

func TestSortIsStable(t *testing.T) {
	tasks := []Task{
		{ID: "a", Priority: 1, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "b", Priority: 1, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "c", Priority: 1, CreatedAt: "2026-01-01T00:00:00Z"},
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(tasks, DefaultSort(), time.UTC)))

	reversed := []Task{tasks[2], tasks[1], tasks[0]}
	assert.Equal(t, []string{"c", "b", "a"}, ids(Sort(reversed, DefaultSort(), time.UTC)))
}

func TestSortDueDateNullPlacement(t *testing.T) {
	tasks := []Task{
		{ID: "mar12", Due: &Due{Date: "2026-03-12"}},
		{ID: "none"},
		{ID: "mar11", Due: &Due{Date: "2026-03-11"}},
		{ID: "bad", Due: &Due{Date: "n/a"}},
	}

	cases := []struct {
		name string
		key  SortKey
		want []string
	}{
		{"asc last", SortKey{Field: SortDueDate, Order: Asc, Nulls: NullsLast}, []string{"mar11", "mar12", "none", "bad"}},
		{"desc last", SortKey{Field: SortDueDate, Order: Desc, Nulls: NullsLast}, []string{"mar12", "mar11", "none", "bad"}},
		{"asc first", SortKey{Field: SortDueDate, Order: Asc, Nulls: NullsFirst}, []string{"none", "bad", "mar11", "mar12"}},
		{"desc first", SortKey{Field: SortDueDate, Order: Desc, Nulls: NullsFirst}, []string{"none", "bad", "mar12", "mar11"}},
		{"default placement", SortKey{Field: SortDueDate, Order: Asc}, []string{"mar11", "mar12", "none", "bad"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Sort(tasks, []SortKey{tc.key}, time.UTC)))
		})
	}
}

func TestSortDueDatePrefersDatetime(t *testing.T) {
	tasks := []Task{
		{ID: "all-day", Due: &Due{Date: "2026-03-10"}},
		{ID: "morning", Due: &Due{Date: "2026-03-10", Datetime: "2026-03-10T08:00:00Z"}},
	}

	got := Sort(tasks, []SortKey{{Field: SortDueDate, Order: Asc}}, time.UTC)

	assert.Equal(t, []string{"morning", "all-day"}, ids(got))
}

func TestSortCreatedAtLexical(t *testing.T) {
	tasks := []Task{
		{ID: "new", CreatedAt: "2026-02-01T10:00:00.000000Z"},
		{ID: "missing"},
		{ID: "old", CreatedAt: "2025-12-31T23:59:59.000000Z"},
	}

	got := Sort(tasks, []SortKey{{Field: SortCreatedAt, Order: Asc}}, time.UTC)

	assert.Equal(t, []string{"old", "new", "missing"}, ids(got))
}

func TestSortDefaultChain(t *testing.T) {
	tasks := []Task{
		{ID: "p1-late", Priority: 1, Due: &Due{Date: "2026-03-01"}},
		{ID: "p4-nodue", Priority: 4, CreatedAt: "2026-01-02T00:00:00Z"},
		{ID: "p4-due", Priority: 4, Due: &Due{Date: "2026-03-15"}, CreatedAt: "2026-01-05T00:00:00Z"},
		{ID: "p4-nodue-older", Priority: 4, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "p3", Priority: 3},
	}

	got := Sort(tasks, DefaultSort(), time.UTC)

	assert.Equal(t, []string{"p4-due", "p4-nodue-older", "p4-nodue", "p3", "p1-late"}, ids(got))
}

func TestSortWithoutKeysCopies(t *testing.T) {
	tasks := []Task{{ID: "b"}, {ID: "a"}}

	got := Sort(tasks, nil, time.UTC)
	got[0].ID = "changed"

	assert.Equal(t, "b", tasks[0].ID)
}

func TestSortResolvesDatesInLocation(t *testing.T) {
	tasks := []Task{
		{ID: "all-day", Due: &Due{Date: "2026-03-10"}},
		{ID: "late", Due: &Due{Date: "2026-03-10", Datetime: "2026-03-10T23:30:00Z"}},
	}
	keys := []SortKey{{Field: SortDueDate, Order: Asc}}

	// End of the day is 21:59:59Z two hours east of UTC.
	assert.Equal(t, []string{"all-day", "late"}, ids(Sort(tasks, keys, testLoc)))
	assert.Equal(t, []string{"late", "all-day"}, ids(Sort(tasks, keys, time.UTC)))
}
