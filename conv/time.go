package conv

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	ftime "github.com/viant/datamodel/format/time"
)

// Date represents calendar date without time of day and zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns date part of supplied time
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns date as midnight time in supplied location
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String returns ISO-8601 date text
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TimeOfDay represents wall clock time without date
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// TimeOfDayOf returns clock part of supplied time
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

// String returns ISO-8601 time text
func (t TimeOfDay) String() string {
	ret := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond > 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
		ret += "." + frac
	}
	return ret
}

// MarshalText implements encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	dateType      = reflect.TypeOf(Date{})
	timeOfDayType = reflect.TypeOf(TimeOfDay{})
	durationType  = reflect.TypeOf(time.Duration(0))
)

// ToTime converts value to time.Time, text is parsed with the fast parser first,
// then with the fallback layouts, numbers are treated as Unix epoch
func ToTime(value interface{}, opts *Options) (interface{}, error) {
	if opts == nil {
		opts = &Options{}
	}
	switch actual := value.(type) {
	case time.Time:
		return actual, nil
	case *time.Time:
		if actual == nil {
			return nil, newError(value, KindDateTime, "nil pointer", nil)
		}
		return *actual, nil
	case Date:
		return actual.Time(opts.Location), nil
	case string:
		return parseTime(actual, opts)
	case []byte:
		return parseTime(string(actual), opts)
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fromEpoch(value, float64(srcValue.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromEpoch(value, float64(srcValue.Uint()))
	case reflect.Float32, reflect.Float64:
		return fromEpoch(value, srcValue.Float())
	case reflect.String:
		return parseTime(srcValue.String(), opts)
	}
	return nil, newError(value, KindDateTime, "", nil)
}

func fromEpoch(value interface{}, epoch float64) (interface{}, error) {
	ret, err := ftime.FromEpoch(epoch)
	if err != nil {
		return nil, newError(value, KindDateTime, "", err)
	}
	return ret, nil
}

func parseTime(text string, opts *Options) (interface{}, error) {
	text = strings.TrimSpace(text)
	if opts.TimeParser != nil {
		if ret, err := opts.TimeParser.ParseDateTime(text); err == nil {
			return ret, nil
		}
	}
	ret, err := ftime.ParseAny(text, opts.DateLayouts, opts.Location)
	if err == nil {
		return ret, nil
	}
	if epoch, pErr := strconv.ParseFloat(text, 64); pErr == nil {
		return fromEpoch(text, epoch)
	}
	return nil, newError(text, KindDateTime, "", err)
}

// ToDate converts value to Date, date-times are truncated to their date part
func ToDate(value interface{}, opts *Options) (interface{}, error) {
	switch actual := value.(type) {
	case Date:
		return actual, nil
	case time.Time:
		return DateOf(actual), nil
	}
	ret, err := ToTime(value, opts)
	if err != nil {
		return nil, retarget(err, KindDate)
	}
	return DateOf(ret.(time.Time)), nil
}

// ToTimeOfDay converts value to TimeOfDay, accepts hh:mm, hh:mm:ss[.fff] text or date-time values
func ToTimeOfDay(value interface{}, opts *Options) (interface{}, error) {
	switch actual := value.(type) {
	case TimeOfDay:
		return actual, nil
	case time.Time:
		return TimeOfDayOf(actual), nil
	case time.Duration:
		return durationToTimeOfDay(value, actual)
	case string:
		return parseTimeOfDay(actual, opts)
	case []byte:
		return parseTimeOfDay(string(actual), opts)
	}
	return nil, newError(value, KindTime, "", nil)
}

func durationToTimeOfDay(value interface{}, d time.Duration) (interface{}, error) {
	if d < 0 || d >= 24*time.Hour {
		return nil, newError(value, KindTime, "duration out of day range", nil)
	}
	t := time.Time{}.Add(d)
	return TimeOfDayOf(t), nil
}

var timeOfDayLayouts = []string{"15:04:05.999999999", "15:04", "15:04:05Z07:00", "03:04PM", "03:04:05PM", "3:04PM"}

func parseTimeOfDay(text string, opts *Options) (interface{}, error) {
	text = strings.TrimSpace(text)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	if ret, err := ToTime(text, opts); err == nil {
		return TimeOfDayOf(ret.(time.Time)), nil
	}
	return nil, newError(text, KindTime, "expected hh:mm[:ss[.fff]]", nil)
}

// ToDuration converts value to time.Duration, numbers are treated as seconds,
// text accepts Go duration syntax (1h30m) or clock form (hh:mm:ss)
func ToDuration(value interface{}, _ *Options) (interface{}, error) {
	switch actual := value.(type) {
	case time.Duration:
		return actual, nil
	case string:
		return parseDuration(actual)
	case []byte:
		return parseDuration(string(actual))
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(srcValue.Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(srcValue.Uint()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(srcValue.Float() * float64(time.Second)), nil
	}
	return nil, newError(value, KindDuration, "", nil)
}

func parseDuration(text string) (interface{}, error) {
	text = strings.TrimSpace(text)
	if d, err := time.ParseDuration(text); err == nil {
		return d, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	negative := strings.HasPrefix(text, "-")
	parts := strings.Split(strings.TrimPrefix(text, "-"), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, newError(text, KindDuration, "expected Go duration or hh:mm[:ss]", nil)
	}
	var ret time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, newError(text, KindDuration, "expected Go duration or hh:mm[:ss]", err)
		}
		ret += time.Duration(f * float64(units[i]))
	}
	if negative {
		ret = -ret
	}
	return ret, nil
}

func retarget(err error, kind Kind) error {
	if convErr, ok := err.(*Error); ok {
		convErr.Kind = kind
	}
	return err
}
