package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var timeOfDayLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

// ArrivalWindow is the pair of times of day a technician may arrive between.
// Only hour and minute are meaningful.
type ArrivalWindow struct {
	Start time.Time
	End   time.Time
}

// ParseArrivalWindow parses display strings such as "8:00 AM - 10:00 AM".
func ParseArrivalWindow(s string) (ArrivalWindow, error) {
	var w ArrivalWindow
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return w, fmt.Errorf("arrival window %q must look like \"8:00 AM - 10:00 AM\"", s)
	}
	start, err := parseTimeOfDay(parts[0])
	if err != nil {
		return w, err
	}
	end, err := parseTimeOfDay(parts[1])
	if err != nil {
		return w, err
	}
	if !start.Before(end) {
		return w, fmt.Errorf("arrival window %q must end after it starts", s)
	}
	return ArrivalWindow{Start: start, End: end}, nil
}

func (w ArrivalWindow) String() string {
	return w.Start.Format("3:04 PM") + " - " + w.End.Format("3:04 PM")
}

func parseTimeOfDay(s string) (time.Time, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", s)
}

// NextOccurrence returns the date of the visit after last for a recurring cadence.
func NextOccurrence(last time.Time, frequency string) (time.Time, bool) {
	switch NormalizeFrequency(frequency) {
	case FrequencyWeekly:
		return last.AddDate(0, 0, 7), true
	case FrequencyBiweekly:
		return last.AddDate(0, 0, 14), true
	case FrequencyMonthly:
		return last.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}

// SortByArrival orders same-day jobs by the start of their arrival window.
// Windows that do not parse sort last; ties keep their input order.
func SortByArrival(jobs []*Job) {
	key := func(j *Job) int {
		w, err := ParseArrivalWindow(j.ArrivalWindow)
		if err != nil {
			return 24 * 60
		}
		return w.Start.Hour()*60 + w.Start.Minute()
	}
	sort.SliceStable(jobs, func(a, b int) bool { return key(jobs[a]) < key(jobs[b]) })
}
