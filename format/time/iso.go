package time

import (
	"fmt"
	"time"
)

// ISOParser is a fast ISO-8601 parser, it checks the shape of the input before
// selecting a single layout instead of probing a layout list
type ISOParser struct {
	Location *time.Location
}

// ParseDateTime parses ISO-8601 date or date-time text
func (p ISOParser) ParseDateTime(value string) (time.Time, error) {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	n := len(value)
	if n < 10 || value[4] != '-' || value[7] != '-' {
		return time.Time{}, fmt.Errorf("not an ISO-8601 date: %q", value)
	}
	if n == 10 {
		return time.ParseInLocation("2006-01-02", value, loc)
	}
	if value[10] != 'T' && value[10] != 't' && value[10] != ' ' {
		return time.Time{}, fmt.Errorf("not an ISO-8601 date-time: %q", value)
	}
	if value[10] != 'T' {
		value = value[:10] + "T" + value[11:]
	}
	if hasZone(value) {
		return time.Parse(time.RFC3339Nano, value)
	}
	switch n {
	case 16:
		return time.ParseInLocation("2006-01-02T15:04", value, loc)
	default:
		return time.ParseInLocation("2006-01-02T15:04:05.999999999", value, loc)
	}
}

func hasZone(value string) bool {
	last := value[len(value)-1]
	if last == 'Z' || last == 'z' {
		return true
	}
	// a zone offset follows the clock part: hh:mm:ss+hh:mm
	for i := len(value) - 1; i > 18 && i >= len(value)-6; i-- {
		if value[i] == '+' || value[i] == '-' {
			return true
		}
	}
	return false
}
