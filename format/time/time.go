package time

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var iso20220715DateFormatToRfc3339TimeLayoutReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "01",
	"M", "1",
	"DD", "02",
	"D", "2",
	"+hh:mm", "Z07:00",
	"+hhmm", "Z0700",
	"+hh", "Z07",
	"-hh:mm", "Z07:00",
	"-hhmm", "Z0700",
	"hh", "15",
	"mm", "04",
	"m", "4",
	"ss", "05",
	".SSS", ".999",
	".SS", ".99",
	".S", ".9",
	"-hh", "Z07",
	"Z", "Z07:00",
)

// DateLayouts are fallback layouts tried by the general purpose parser, in order
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"01/02/2006",
	"01-02-2006",
	"02-01-2006",
	"2006/01/02",
	"02/01/2006",
	"02.01.2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// DateFormatToTimeLayout converts ISO 2022-07-15 date format to RFC3339 time layout
func DateFormatToTimeLayout(dateFormat string) string {
	return iso20220715DateFormatToRfc3339TimeLayoutReplacer.Replace(dateFormat)
}

// IsDateFormat returns true if supplied layout uses ISO style date format tokens
func IsDateFormat(layout string) bool {
	return strings.Contains(layout, "YYYY") || strings.Contains(layout, "DD")
}

// Parse parses value with layout, adjusting T separator and layout length to the value
func Parse(layout, value string) (time.Time, error) {
	return ParseInLocation(layout, value, time.UTC)
}

// ParseInLocation parses value with layout in supplied location
func ParseInLocation(layout, value string, loc *time.Location) (time.Time, error) {
	if layout == "" {
		layout = time.RFC3339
	}
	if IsDateFormat(layout) {
		layout = DateFormatToTimeLayout(layout)
	}
	if loc == nil {
		loc = time.UTC
	}
	//adjust T fragment
	if strings.Contains(value, "T") != strings.Contains(layout, "T") {
		layout = strings.Replace(layout, "T", " ", 1)
		value = strings.Replace(value, "T", " ", 1)
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		if len(value) > len(layout) {
			value = value[:len(layout)]
			t, err = time.ParseInLocation(layout, value, loc)
		} else {
			layout = layout[:len(value)]
			t, err = time.ParseInLocation(layout, value, loc)
		}
	}
	return t, err
}

// ParseAny parses value with the supplied layouts followed by DateLayouts
func ParseAny(value string, layouts []string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date/time text")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, candidates := range [][]string{layouts, DateLayouts} {
		for _, layout := range candidates {
			if IsDateFormat(layout) {
				layout = DateFormatToTimeLayout(layout)
			}
			if t, err := time.ParseInLocation(layout, value, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse %q, accepted layouts: RFC3339, %s", value, strings.Join(append(append([]string{}, layouts...), DateLayouts...), ", "))
}

// FromEpoch converts Unix epoch number to time, the unit (s, ms, µs, ns) is inferred from magnitude
func FromEpoch(epoch float64) (time.Time, error) {
	if math.IsNaN(epoch) || math.IsInf(epoch, 0) {
		return time.Time{}, fmt.Errorf("invalid epoch: %v", epoch)
	}
	abs := math.Abs(epoch)
	switch {
	case abs < 1e11:
		sec, frac := math.Modf(epoch)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
	case abs < 1e14:
		ms := int64(epoch)
		return time.UnixMilli(ms).UTC(), nil
	case abs < 1e17:
		return time.UnixMicro(int64(epoch)).UTC(), nil
	}
	return time.Unix(0, int64(epoch)).UTC(), nil
}
