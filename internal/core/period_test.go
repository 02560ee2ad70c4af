package core_test

import (
	"testing"
	"time"

	"erp-core/internal/core"
)

func TestPeriodBucket(t *testing.T) {
	mar2025 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	dec1999 := time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)
	jan2000 := time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		policy core.RTZPolicy
		date   time.Time
		want   int
	}{
		{"none", core.RTZNone, mar2025, 0},
		{"annual", core.RTZAnnual, mar2025, 25},
		{"annual century boundary", core.RTZAnnual, jan2000, 0},
		{"monthly", core.RTZMonthly, mar2025, 2503},
		{"monthly december", core.RTZMonthly, dec1999, 9912},
		{"decennial", core.RTZDecennial, mar2025, 5},
		{"decennial decade boundary", core.RTZDecennial, jan2000, 0},
		{"unknown policy fails open", core.RTZPolicy("quarterly"), mar2025, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.PeriodBucket(tt.policy, tt.date); got != tt.want {
				t.Errorf("PeriodBucket(%q, %s) = %d, want %d", tt.policy, tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
