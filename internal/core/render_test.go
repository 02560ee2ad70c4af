package core_test

import (
	"testing"
	"time"

	"erp-core/internal/core"
)

// 2025-03-01 is a Saturday, day 60 of the year, ISO week 9.
var renderDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestRender_ComponentDispatch(t *testing.T) {
	values := core.RenderValues{
		Date:       renderDate,
		Company:    "ACME",
		Site:       "LYON1",
		Sequence:   "000042",
		Complement: "PROJECT-X",
	}

	tests := []struct {
		name       string
		components []core.CounterComponent
		chrono     core.ChronoControl
		want       string
	}{
		{
			name:       "constant literal",
			components: []core.CounterComponent{{Type: core.ComponentConstant, Constant: "NF"}},
			want:       "NF",
		},
		{
			name:       "year single decennial digit",
			components: []core.CounterComponent{{Type: core.ComponentYear, Length: 1}},
			want:       "5",
		},
		{
			name:       "year two digits",
			components: []core.CounterComponent{{Type: core.ComponentYear, Length: 2}},
			want:       "25",
		},
		{
			name:       "year four digits",
			components: []core.CounterComponent{{Type: core.ComponentYear, Length: 4}},
			want:       "2025",
		},
		{
			name:       "month numeric",
			components: []core.CounterComponent{{Type: core.ComponentMonth, Length: 2}},
			want:       "03",
		},
		{
			name:       "month abbreviation",
			components: []core.CounterComponent{{Type: core.ComponentMonth, Length: 3}},
			want:       "MAR",
		},
		{
			name:       "iso week",
			components: []core.CounterComponent{{Type: core.ComponentWeek, Length: 2}},
			want:       "09",
		},
		{
			name:       "weekday number",
			components: []core.CounterComponent{{Type: core.ComponentDay, Length: 1}},
			want:       "6",
		},
		{
			name:       "day of month",
			components: []core.CounterComponent{{Type: core.ComponentDay, Length: 2}},
			want:       "01",
		},
		{
			name:       "day of year",
			components: []core.CounterComponent{{Type: core.ComponentDay, Length: 3}},
			want:       "060",
		},
		{
			name:       "company truncated",
			components: []core.CounterComponent{{Type: core.ComponentCompany, Length: 3}},
			want:       "ACM",
		},
		{
			name:       "site padded under chrono padding",
			components: []core.CounterComponent{{Type: core.ComponentSite, Length: 8}},
			chrono:     core.ChronoPadded,
			want:       "LYON1___",
		},
		{
			name:       "site short without padding mode",
			components: []core.CounterComponent{{Type: core.ComponentSite, Length: 8}},
			chrono:     core.ChronoNone,
			want:       "LYON1",
		},
		{
			name:       "complement truncated",
			components: []core.CounterComponent{{Type: core.ComponentComplement, Length: 7}},
			want:       "PROJECT",
		},
		{
			name:       "complement untouched when length zero",
			components: []core.CounterComponent{{Type: core.ComponentComplement, Length: 0}},
			want:       "PROJECT-X",
		},
		{
			name: "rendering stops at first unset slot",
			components: []core.CounterComponent{
				{Type: core.ComponentConstant, Constant: "A"},
				{Type: core.ComponentUnset},
				{Type: core.ComponentConstant, Constant: "B"},
			},
			want: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &core.CounterDefinition{
				Code:       "TEST",
				Chrono:     tt.chrono,
				ValueType:  core.ValueAlphanumeric,
				Components: tt.components,
			}
			if got := def.Render(values); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	def := &core.CounterDefinition{
		Code:      "VENDA_NF",
		RTZ:       core.RTZAnnual,
		Level:     core.LevelGlobal,
		ValueType: core.ValueAlphanumeric,
		Components: []core.CounterComponent{
			{Type: core.ComponentConstant, Constant: "NF"},
			{Type: core.ComponentYear, Length: 4},
			{Type: core.ComponentSequence, Length: 6},
		},
	}
	values := core.RenderValues{Date: renderDate, Sequence: "000001"}

	want := "NF2025000001"
	for i := 0; i < 5; i++ {
		if got := def.Render(values); got != want {
			t.Fatalf("Render() run %d = %q, want %q", i, got, want)
		}
	}
}

func TestRender_NumericCollapse(t *testing.T) {
	tests := []struct {
		name       string
		components []core.CounterComponent
		sequence   string
		want       string
	}{
		{
			name: "pure numeric strips leading zeros",
			components: []core.CounterComponent{
				{Type: core.ComponentSequence, Length: 5},
			},
			sequence: "00042",
			want:     "42",
		},
		{
			name: "digits then letters keep leading integer",
			components: []core.CounterComponent{
				{Type: core.ComponentSequence, Length: 5},
				{Type: core.ComponentConstant, Constant: "X"},
			},
			sequence: "00042",
			want:     "42",
		},
		{
			name: "alpha prefix is not a number",
			components: []core.CounterComponent{
				{Type: core.ComponentConstant, Constant: "INV-"},
				{Type: core.ComponentSequence, Length: 5},
			},
			sequence: "00042",
			want:     "NaN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &core.CounterDefinition{
				Code:       "NUMTEST",
				ValueType:  core.ValueNumeric,
				Components: tt.components,
			}
			got := def.Render(core.RenderValues{Date: renderDate, Sequence: tt.sequence})
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}
