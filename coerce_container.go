package datamodel

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/viant/datamodel/conv"
	"github.com/viant/datamodel/visitor"
)

// PathError locates failed container element
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }

func indexPath(index int) string {
	return fmt.Sprintf("[%d]", index)
}

// sequenceOf returns raw items if raw is a sequence, a Go set yields its sorted keys
func (s *session) sequenceOf(raw interface{}) ([]interface{}, bool) {
	switch actual := raw.(type) {
	case []interface{}:
		return actual, true
	case string:
		if !s.opts.DelimitedLists {
			return nil, false
		}
		items := conv.SplitDelimited(actual)
		ret := make([]interface{}, len(items))
		for i, item := range items {
			ret[i] = item
		}
		return ret, true
	}
	rValue := reflect.ValueOf(raw)
	if _, primitive := s.opts.Registry.Lookup(rValue.Type()); primitive {
		return nil, false
	}
	switch rValue.Kind() {
	case reflect.Slice, reflect.Array:
		ret, err := visitor.Items(raw)
		return ret, err == nil
	case reflect.Map:
		if rValue.Type().Elem() != emptyStruct {
			return nil, false
		}
		keys := visitor.SortedKeys(rValue)
		ret := make([]interface{}, len(keys))
		for i, key := range keys {
			ret[i] = key.Interface()
		}
		return ret, true
	}
	return nil, false
}

func (s *session) coerceCollection(aType *Type, raw interface{}) (outcome, error) {
	category := aType.Category()
	elem := category.Inner()
	if category.Kind == CategoryList {
		if out, ok, err := s.bulk(aType, elem, raw); ok {
			return out, err
		}
	}
	items, ok := s.sequenceOf(raw)
	if !ok {
		items = []interface{}{raw}
	}
	values, err := s.coerceItems(elem, items)
	if err != nil {
		return outcome{}, err
	}
	target := aType.GoType()
	if category.Kind == CategoryList {
		ret, err := s.makeSlice(aType, target, raw, values)
		if err != nil {
			return outcome{}, err
		}
		return outcome{value: ret, resolved: aType}, nil
	}
	ret := reflect.MakeMapWithSize(target, len(values))
	unit := reflect.New(target.Elem()).Elem()
	for i, value := range values {
		if value == nil || !reflect.ValueOf(value).Comparable() {
			return outcome{}, &PathError{Path: indexPath(i), Err: &ConversionError{Value: value, Expected: elem.String(), Reason: "value is not hashable"}}
		}
		key, err := assign(target.Key(), value)
		if err != nil {
			return outcome{}, &PathError{Path: indexPath(i), Err: &ConversionError{Value: value, Expected: elem.String(), Err: err}}
		}
		ret.SetMapIndex(key, unit)
	}
	return outcome{value: ret.Interface(), resolved: aType}, nil
}

// bulk converts whole raw slice with registered bulk converter
func (s *session) bulk(aType, elem *Type, raw interface{}) (outcome, bool, error) {
	if elem.Kind() != CategoryPrimitive {
		return outcome{}, false, nil
	}
	if _, isText := raw.(string); isText && !s.opts.DelimitedLists {
		return outcome{}, false, nil
	}
	if kind := reflect.TypeOf(raw).Kind(); kind != reflect.Slice && kind != reflect.String {
		return outcome{}, false, nil
	}
	fn, ok := s.opts.Registry.Bulk(elem.GoType())
	if !ok {
		return outcome{}, false, nil
	}
	values, handled, err := fn(raw, s.convOpts)
	if !handled {
		return outcome{}, false, nil
	}
	if err != nil {
		var indexErr *conv.IndexError
		if errors.As(err, &indexErr) {
			var item interface{}
			if items, ok := s.sequenceOf(raw); ok && indexErr.Index < len(items) {
				item = items[indexErr.Index]
			}
			return outcome{}, true, &PathError{Path: indexPath(indexErr.Index), Err: newConversionError(item, elem, indexErr.Err)}
		}
		return outcome{}, true, newConversionError(raw, aType, err)
	}
	if reflect.TypeOf(values) != aType.GoType() {
		return outcome{}, false, nil
	}
	return outcome{value: values, resolved: aType}, true, nil
}

func (s *session) coerceItems(elem *Type, items []interface{}) ([]interface{}, error) {
	ret := make([]interface{}, len(items))
	for i, item := range items {
		out, err := s.coerce(elem, item)
		if err != nil {
			return nil, &PathError{Path: indexPath(i), Err: err}
		}
		ret[i] = out.value
	}
	return ret, nil
}

func (s *session) makeSlice(aType *Type, target reflect.Type, raw interface{}, values []interface{}) (interface{}, error) {
	ret := reflect.MakeSlice(target, len(values), len(values))
	for i, value := range values {
		if value == nil {
			continue
		}
		item, err := assign(target.Elem(), value)
		if err != nil {
			return nil, &PathError{Path: indexPath(i), Err: &ConversionError{Value: raw, Expected: aType.String(), Err: err}}
		}
		ret.Index(i).Set(item)
	}
	return ret.Interface(), nil
}

func (s *session) coerceTuple(aType *Type, raw interface{}) (outcome, error) {
	category := aType.Category()
	items, ok := s.sequenceOf(raw)
	if !ok {
		items = []interface{}{raw}
	}
	target := aType.GoType()
	if category.Homogeneous {
		values, err := s.coerceItems(category.Inner(), items)
		if err != nil {
			return outcome{}, err
		}
		ret, err := s.makeSlice(aType, target, raw, values)
		if err != nil {
			return outcome{}, err
		}
		return outcome{value: ret, resolved: aType}, nil
	}
	if len(items) != len(category.Args) {
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Reason: fmt.Sprintf("expected %d items, but had %d", len(category.Args), len(items))}
	}
	values := make([]interface{}, len(items))
	for i, item := range items {
		out, err := s.coerce(category.Args[i], item)
		if err != nil {
			return outcome{}, &PathError{Path: indexPath(i), Err: err}
		}
		values[i] = out.value
	}
	if target.Kind() == reflect.Array {
		ret := reflect.New(target).Elem()
		for i, value := range values {
			if value == nil {
				continue
			}
			item, err := assign(target.Elem(), value)
			if err != nil {
				return outcome{}, &PathError{Path: indexPath(i), Err: &ConversionError{Value: raw, Expected: aType.String(), Err: err}}
			}
			ret.Index(i).Set(item)
		}
		return outcome{value: ret.Interface(), resolved: aType}, nil
	}
	return outcome{value: values, resolved: aType}, nil
}

func (s *session) coerceDict(aType *Type, raw interface{}) (outcome, error) {
	category := aType.Category()
	keyType, valueType := category.Args[0], category.Args[1]
	var source interface{} = raw
	switch actual := raw.(type) {
	case *Record:
		source = actual.asMap()
	default:
		if rType := reflect.TypeOf(raw); rType.Kind() == reflect.Struct {
			if _, primitive := s.opts.Registry.Lookup(rType); !primitive {
				aMap, err := structMap(raw)
				if err != nil {
					return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Err: err}
				}
				source = aMap
			}
		}
	}
	visit, err := visitor.AnyMapVisitorOf(source)
	if err != nil {
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Reason: "expected mapping"}
	}
	target := aType.GoType()
	ret := reflect.MakeMap(target)
	err = visit(func(key, value interface{}) (bool, error) {
		path := "[" + keyText(key) + "]"
		keyOut, err := s.coerce(keyType, key)
		if err != nil {
			return false, &PathError{Path: path, Err: err}
		}
		if keyOut.value == nil || !reflect.ValueOf(keyOut.value).Comparable() {
			return false, &PathError{Path: path, Err: &ConversionError{Value: key, Expected: keyType.String(), Reason: "key is not hashable"}}
		}
		valueOut, err := s.coerce(valueType, value)
		if err != nil {
			return false, &PathError{Path: path, Err: err}
		}
		mapKey, err := assign(target.Key(), keyOut.value)
		if err != nil {
			return false, &PathError{Path: path, Err: &ConversionError{Value: key, Expected: keyType.String(), Err: err}}
		}
		mapValue, err := assign(target.Elem(), valueOut.value)
		if err != nil {
			return false, &PathError{Path: path, Err: &ConversionError{Value: value, Expected: valueType.String(), Err: err}}
		}
		ret.SetMapIndex(mapKey, mapValue)
		return true, nil
	})
	if err != nil {
		return outcome{}, err
	}
	return outcome{value: ret.Interface(), resolved: aType}, nil
}
