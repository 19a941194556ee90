package stock

import "time"

// UrgencyLevel classifies how soon a batch must leave the warehouse
type UrgencyLevel string

const (
	UrgencyExpired  UrgencyLevel = "expired"
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyLow      UrgencyLevel = "low"
)

// Severity returns a rank for comparing urgency levels, higher is more urgent
func (u UrgencyLevel) Severity() int {
	switch u {
	case UrgencyExpired:
		return 4
	case UrgencyCritical:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// UrgencyThresholds holds the day boundaries between urgency levels.
// A batch is critical strictly below CriticalDays, high up to and including
// HighDays, medium up to and including MediumDays, and low beyond that.
type UrgencyThresholds struct {
	CriticalDays int
	HighDays     int
	MediumDays   int
}

// DefaultUrgencyThresholds returns the standard perishable-goods boundaries
func DefaultUrgencyThresholds() UrgencyThresholds {
	return UrgencyThresholds{
		CriticalDays: 3,
		HighDays:     7,
		MediumDays:   14,
	}
}

// Classify maps days-until-use-by to an urgency level
func (t UrgencyThresholds) Classify(daysUntilUseBy int) UrgencyLevel {
	switch {
	case daysUntilUseBy < 0:
		return UrgencyExpired
	case daysUntilUseBy < t.CriticalDays:
		return UrgencyCritical
	case daysUntilUseBy <= t.HighDays:
		return UrgencyHigh
	case daysUntilUseBy <= t.MediumDays:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// ClassifyContent returns the urgency of a bin content as of the given day
func (t UrgencyThresholds) ClassifyContent(content *BinContent, asOf time.Time) UrgencyLevel {
	return t.Classify(content.DaysUntilUseBy(asOf))
}
