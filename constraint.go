package datamodel

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Constraints represents scalar constraints, nil bound means unconstrained
type Constraints struct {
	Min       *float64
	Max       *float64
	Gt        *float64
	Lt        *float64
	Ge        *float64
	Le        *float64
	Eq        *float64
	Ne        *float64
	Length    *int
	MinLength *int
	MaxLength *int
	Pattern   *regexp.Regexp
}

// IsEmpty returns true if no constraint is declared
func (c *Constraints) IsEmpty() bool {
	return c.Min == nil && c.Max == nil && c.Gt == nil && c.Lt == nil && c.Ge == nil && c.Le == nil &&
		c.Eq == nil && c.Ne == nil && c.Length == nil && c.MinLength == nil && c.MaxLength == nil && c.Pattern == nil
}

type bound struct {
	name   string
	limit  *float64
	accept func(cmp int) bool
}

func (c *Constraints) bounds() []bound {
	return []bound{
		{"min", c.Min, func(cmp int) bool { return cmp >= 0 }},
		{"max", c.Max, func(cmp int) bool { return cmp <= 0 }},
		{"gt", c.Gt, func(cmp int) bool { return cmp > 0 }},
		{"lt", c.Lt, func(cmp int) bool { return cmp < 0 }},
		{"ge", c.Ge, func(cmp int) bool { return cmp >= 0 }},
		{"le", c.Le, func(cmp int) bool { return cmp <= 0 }},
		{"eq", c.Eq, func(cmp int) bool { return cmp == 0 }},
		{"ne", c.Ne, func(cmp int) bool { return cmp != 0 }},
	}
}

// check validates primitive value, text is checked for length and pattern, numbers against bounds
func (c *Constraints) check(value interface{}) error {
	if c.IsEmpty() {
		return nil
	}
	if text, ok := textOf(value); ok {
		return c.checkText(value, text)
	}
	compare, ok := comparator(value)
	if !ok {
		return nil
	}
	for _, b := range c.bounds() {
		if b.limit == nil {
			continue
		}
		if cmp, comparable := compare(*b.limit); !comparable || !b.accept(cmp) {
			return &ConstraintViolation{Value: value, Constraint: b.name, Limit: *b.limit}
		}
	}
	return nil
}

// comparator returns function comparing value with a bound, NaN is not comparable
func comparator(value interface{}) (func(limit float64) (int, bool), bool) {
	if f, ok := floatOf(value); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return func(limit float64) (int, bool) {
			switch {
			case math.IsNaN(f):
				return 0, false
			case f > limit:
				return 1, true
			case f < limit:
				return -1, true
			}
			return 0, true
		}, true
	}
	number, ok := numberOf(value)
	if !ok {
		return nil, false
	}
	return func(limit float64) (int, bool) {
		return number.Cmp(decimal.NewFromFloat(limit)), true
	}, true
}

func floatOf(value interface{}) (float64, bool) {
	rValue := reflect.ValueOf(value)
	if rValue.Kind() == reflect.Float32 || rValue.Kind() == reflect.Float64 {
		return rValue.Float(), true
	}
	return 0, false
}

func (c *Constraints) checkText(value interface{}, text string) error {
	length := utf8.RuneCountInString(text)
	if _, isBytes := value.([]byte); isBytes {
		length = len(text)
	}
	if c.Length != nil && length != *c.Length {
		return &ConstraintViolation{Value: value, Constraint: "length", Limit: *c.Length}
	}
	if c.MinLength != nil && length < *c.MinLength {
		return &ConstraintViolation{Value: value, Constraint: "minLength", Limit: *c.MinLength}
	}
	if c.MaxLength != nil && length > *c.MaxLength {
		return &ConstraintViolation{Value: value, Constraint: "maxLength", Limit: *c.MaxLength}
	}
	if c.Min != nil && float64(length) < *c.Min {
		return &ConstraintViolation{Value: value, Constraint: "min", Limit: *c.Min}
	}
	if c.Max != nil && float64(length) > *c.Max {
		return &ConstraintViolation{Value: value, Constraint: "max", Limit: *c.Max}
	}
	if c.Pattern != nil && !c.Pattern.MatchString(text) {
		return &ConstraintViolation{Value: value, Constraint: "pattern", Limit: c.Pattern.String()}
	}
	return nil
}

func textOf(value interface{}) (string, bool) {
	switch actual := value.(type) {
	case string:
		return actual, true
	case []byte:
		return string(actual), true
	}
	rValue := reflect.ValueOf(value)
	if rValue.Kind() == reflect.String {
		return rValue.String(), true
	}
	return "", false
}

// numberOf returns exact decimal form of numeric value, durations are measured in seconds
func numberOf(value interface{}) (decimal.Decimal, bool) {
	switch actual := value.(type) {
	case decimal.Decimal:
		return actual, true
	case time.Duration:
		return decimal.New(int64(actual), -9), true
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rValue.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rValue.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(rValue.Float()), true
	}
	return decimal.Decimal{}, false
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	ret, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return ret, nil
}
