package services

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// mealDateTimeLayouts are tried in order; the first two are what HTML
// datetime-local inputs submit.
var mealDateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	DateLayout,
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns [start of day, start of next day) in location.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses a YYYY-MM-DD value. An empty value yields today.
func ParseDay(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DateAtLocation(now, location), nil
	}
	parsed, err := time.ParseInLocation(DateLayout, trimmed, location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

func parseMealDateTime(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range mealDateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, location); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseDateRange parses optional from/to days. to is inclusive and is
// returned as the start of the following day.
func ParseDateRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	problems := &ValidationError{}

	var from *time.Time
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsed, err := time.ParseInLocation(DateLayout, fromRaw, location)
		if err != nil {
			problems.Add("from", RulePattern, "from must be YYYY-MM-DD")
		} else {
			from = &parsed
		}
	}

	var toEnd *time.Time
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsed, err := time.ParseInLocation(DateLayout, toRaw, location)
		if err != nil {
			problems.Add("to", RulePattern, "to must be YYYY-MM-DD")
		} else {
			end := parsed.AddDate(0, 0, 1)
			toEnd = &end
		}
	}

	if from != nil && toEnd != nil && !toEnd.After(*from) {
		problems.Add("to", RuleMin, "to must not be before from")
	}
	if err := problems.Err(); err != nil {
		return nil, nil, err
	}
	return from, toEnd, nil
}
