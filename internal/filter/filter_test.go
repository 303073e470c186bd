package filter

import (
	"testing"
	"time"
)

type thing struct {
	id     string
	parent string
	done   bool
	date   time.Time
}

func parentOf(t thing) string  { return t.parent }
func isDone(t thing) bool      { return t.done }
func dateOf(t thing) time.Time { return t.date }
func titleOf(t thing) string   { return t.id }

func TestApplyPreservesOrderAndInput(t *testing.T) {
	snapshot := []thing{{id: "a"}, {id: "b", done: true}, {id: "c"}}

	out := Apply(snapshot, func(v thing) bool { return !v.done })
	if len(out) != 2 || out[0].id != "a" || out[1].id != "c" {
		t.Fatalf("unexpected projection: %+v", out)
	}
	if len(snapshot) != 3 {
		t.Fatalf("snapshot was mutated: %+v", snapshot)
	}
}

func TestApplyNilPredicateIsIdentity(t *testing.T) {
	snapshot := []thing{{id: "a"}, {id: "b"}}
	out := Apply[thing](snapshot, nil)
	if len(out) != 2 || out[0].id != "a" || out[1].id != "b" {
		t.Fatalf("unexpected projection: %+v", out)
	}
	// The projection must be a copy, not an alias.
	out[0].id = "changed"
	if snapshot[0].id != "a" {
		t.Fatalf("projection aliases the snapshot")
	}
}

func TestAndSkipsNilClauses(t *testing.T) {
	p := And(nil, func(v thing) bool { return v.done }, nil)
	if p(thing{done: false}) {
		t.Fatalf("active clause was dropped")
	}
	if !p(thing{done: true}) {
		t.Fatalf("active clause failed a matching entity")
	}
}

func TestAndEmptyIsIdentity(t *testing.T) {
	p := And[thing]()
	if !p(thing{}) {
		t.Fatalf("empty conjunction should pass everything")
	}
}

func TestAndOrderIndependent(t *testing.T) {
	a := func(v thing) bool { return v.done }
	b := func(v thing) bool { return v.parent == "p" }

	cases := []thing{
		{done: true, parent: "p"},
		{done: true, parent: "q"},
		{done: false, parent: "p"},
		{done: false, parent: "q"},
	}
	for _, c := range cases {
		if And(a, b)(c) != And(b, a)(c) {
			t.Fatalf("conjunction depends on clause order for %+v", c)
		}
	}
}

func TestByParent(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		parent   string
		want     bool
	}{
		{"all passes everything", "all", "x", true},
		{"empty passes everything", "", "x", true},
		{"match", "x", "x", true},
		{"mismatch", "x", "y", false},
		{"selected parent vs empty ref", "x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ByParent(tt.selected, parentOf)
			got := true
			if p != nil {
				got = p(thing{parent: tt.parent})
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestByStatus(t *testing.T) {
	if ByStatus(StatusAll, isDone) != nil {
		t.Fatalf("StatusAll should be the identity clause")
	}

	complete := ByStatus(StatusComplete, isDone)
	if !complete(thing{done: true}) || complete(thing{done: false}) {
		t.Fatalf("StatusComplete selects wrong entities")
	}

	incomplete := ByStatus(StatusIncomplete, isDone)
	if incomplete(thing{done: true}) || !incomplete(thing{done: false}) {
		t.Fatalf("StatusIncomplete selects wrong entities")
	}
}

func TestWindowBounds(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	p := Window(now, 3, dateOf)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"now itself is included", now, true},
		{"one second before now is excluded", now.Add(-time.Second), false},
		{"yesterday is excluded", now.AddDate(0, 0, -1), false},
		{"mid-window", now.AddDate(0, 1, 0), true},
		{"upper bound is included", time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC), true},
		{"past upper bound is excluded", time.Date(2026, time.June, 15, 10, 0, 1, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p(thing{date: tt.date}); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowZeroMonthsIsIdentity(t *testing.T) {
	if Window(time.Now(), 0, dateOf) != nil {
		t.Fatalf("months=0 should disable the window clause")
	}
	if Window(time.Now(), -1, dateOf) != nil {
		t.Fatalf("negative months should disable the window clause")
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{
			"jan 31 plus one month clamps to feb end",
			time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"leap year february",
			time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"year rollover",
			time.Date(2026, time.November, 15, 0, 0, 0, 0, time.UTC), 3,
			time.Date(2027, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"plain month add",
			time.Date(2026, time.April, 10, 12, 30, 0, 0, time.UTC), 2,
			time.Date(2026, time.June, 10, 12, 30, 0, 0, time.UTC),
		},
		{
			"negative months",
			time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), -1,
			time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.start, tt.n); !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByTitleIsStableCopy(t *testing.T) {
	in := []thing{{id: "b"}, {id: "a"}, {id: "c"}}
	out := SortByTitle(in, titleOf)

	if out[0].id != "a" || out[1].id != "b" || out[2].id != "c" {
		t.Fatalf("unexpected sort order: %+v", out)
	}
	if in[0].id != "b" {
		t.Fatalf("input slice was mutated: %+v", in)
	}
}

func TestSortByDate(t *testing.T) {
	d := func(y int) time.Time { return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC) }
	in := []thing{{id: "late", date: d(2027)}, {id: "early", date: d(2025)}, {id: "mid", date: d(2026)}}
	out := SortByDate(in, dateOf)

	if out[0].id != "early" || out[1].id != "mid" || out[2].id != "late" {
		t.Fatalf("unexpected sort order: %+v", out)
	}
}
