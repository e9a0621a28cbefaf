package conv

import (
	"reflect"
	"strconv"
	"strings"
)

type repeated []string

func (r repeated) AsInts() ([]int, error) {
	var result = make([]int, 0, len(r))
	for i, item := range r {
		v, err := parseInt(item, strconv.IntSize)
		if err != nil {
			return nil, &IndexError{Index: i, Err: err}
		}
		result = append(result, int(v))
	}
	return result, nil
}

func (r repeated) AsInt64s() ([]int64, error) {
	var result = make([]int64, 0, len(r))
	for i, item := range r {
		v, err := parseInt(item, 64)
		if err != nil {
			return nil, &IndexError{Index: i, Err: err}
		}
		result = append(result, v)
	}
	return result, nil
}

func (r repeated) AsFloats64() ([]float64, error) {
	var result = make([]float64, 0, len(r))
	for i, item := range r {
		v, err := parseFloat(item, 64)
		if err != nil {
			return nil, &IndexError{Index: i, Err: err}
		}
		result = append(result, v)
	}
	return result, nil
}

func (r repeated) AsFloats32() ([]float32, error) {
	var result = make([]float32, 0, len(r))
	for i, item := range r {
		v, err := parseFloat(item, 32)
		if err != nil {
			return nil, &IndexError{Index: i, Err: err}
		}
		result = append(result, float32(v))
	}
	return result, nil
}

// SplitDelimited splits comma delimited text, optionally enclosed with [], into trimmed items
func SplitDelimited(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	if text[0] == '[' && text[len(text)-1] == ']' { //remove enclosure if needed
		text = text[1 : len(text)-1]
	}
	elements := strings.Split(text, ",")
	var result = make([]string, 0, len(elements))
	for _, elem := range elements {
		if elem = strings.TrimSpace(elem); elem == "" {
			continue
		}
		result = append(result, elem)
	}
	return result
}

func newRepeated(values interface{}) (repeated, bool) {
	switch actual := values.(type) {
	case []string:
		return actual, true
	case string:
		return SplitDelimited(actual), true
	}
	return nil, false
}

func bulkInts(values interface{}, _ *Options) (interface{}, bool, error) {
	if ints, ok := values.([]int); ok {
		return ints, true, nil
	}
	r, ok := newRepeated(values)
	if !ok {
		return nil, false, nil
	}
	ret, err := r.AsInts()
	return ret, true, err
}

func bulkInt64s(values interface{}, _ *Options) (interface{}, bool, error) {
	if ints, ok := values.([]int64); ok {
		return ints, true, nil
	}
	r, ok := newRepeated(values)
	if !ok {
		return nil, false, nil
	}
	ret, err := r.AsInt64s()
	return ret, true, err
}

func bulkFloat64s(values interface{}, _ *Options) (interface{}, bool, error) {
	if floats, ok := values.([]float64); ok {
		return floats, true, nil
	}
	r, ok := newRepeated(values)
	if !ok {
		return nil, false, nil
	}
	ret, err := r.AsFloats64()
	return ret, true, err
}

func bulkFloat32s(values interface{}, _ *Options) (interface{}, bool, error) {
	if floats, ok := values.([]float32); ok {
		return floats, true, nil
	}
	r, ok := newRepeated(values)
	if !ok {
		return nil, false, nil
	}
	ret, err := r.AsFloats32()
	return ret, true, err
}

func bulkStrings(values interface{}, _ *Options) (interface{}, bool, error) {
	switch actual := values.(type) {
	case []string:
		return actual, true, nil
	case string:
		return SplitDelimited(actual), true, nil
	}
	if rValue := reflect.ValueOf(values); rValue.Kind() == reflect.Slice && rValue.Type().Elem().Kind() == reflect.String {
		ret := make([]string, rValue.Len())
		for i := range ret {
			ret[i] = rValue.Index(i).String()
		}
		return ret, true, nil
	}
	return nil, false, nil
}
