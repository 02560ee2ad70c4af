package core

import "time"

// PeriodBucket maps a reset policy and a calendar date to the integer
// period bucket used in the sequence counter key.
//
// Unknown policies bucket to 0 like RTZNone. That is the documented
// behavior of the numbering setup screens: an unrecognized reset level
// degrades to a non-resetting counter rather than rejecting the call.
func PeriodBucket(policy RTZPolicy, date time.Time) int {
	switch policy {
	case RTZAnnual:
		return date.Year() % 100
	case RTZMonthly:
		return (date.Year()%100)*100 + int(date.Month())
	case RTZDecennial:
		return date.Year() % 10
	default:
		return 0
	}
}
