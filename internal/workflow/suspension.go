package workflow

import (
	"fmt"
	"time"
)

// SuspensionDuration is one of the fixed suspension lengths an admin can pick.
type SuspensionDuration string

const (
	Suspend7Days      SuspensionDuration = "7_days"
	Suspend14Days     SuspensionDuration = "14_days"
	Suspend30Days     SuspensionDuration = "30_days"
	Suspend90Days     SuspensionDuration = "90_days"
	Suspend6Months    SuspensionDuration = "6_months"
	Suspend12Months   SuspensionDuration = "12_months"
	SuspendIndefinite SuspensionDuration = "indefinite"
)

// SuspensionDurations in the order they are offered.
var SuspensionDurations = []SuspensionDuration{
	Suspend7Days, Suspend14Days, Suspend30Days, Suspend90Days,
	Suspend6Months, Suspend12Months, SuspendIndefinite,
}

func (d SuspensionDuration) Valid() bool {
	for _, v := range SuspensionDurations {
		if v == d {
			return true
		}
	}
	return false
}

// Until computes the end of a suspension starting at from. Indefinite
// suspensions have no end and return nil. Arithmetic is on calendar dates.
func (d SuspensionDuration) Until(from time.Time) (*time.Time, error) {
	var t time.Time
	switch d {
	case Suspend7Days:
		t = from.AddDate(0, 0, 7)
	case Suspend14Days:
		t = from.AddDate(0, 0, 14)
	case Suspend30Days:
		t = from.AddDate(0, 0, 30)
	case Suspend90Days:
		t = from.AddDate(0, 0, 90)
	case Suspend6Months:
		t = from.AddDate(0, 6, 0)
	case Suspend12Months:
		t = from.AddDate(0, 12, 0)
	case SuspendIndefinite:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown suspension duration %q", d)
	}
	return &t, nil
}
