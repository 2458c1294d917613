package booking

import "strings"

// Frequency tokens. They double as pricing discount keys.
const (
	FrequencyOneTime  = "one-time"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

func NormalizeFrequency(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}

// IsJobFrequency reports whether f is accepted on a job.
func IsJobFrequency(f string) bool {
	switch NormalizeFrequency(f) {
	case FrequencyOneTime, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// IsSubscriptionFrequency reports whether f is a recurring cadence.
func IsSubscriptionFrequency(f string) bool {
	switch NormalizeFrequency(f) {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}
