package visitor

import (
	"fmt"
	"reflect"
	"sort"
)

// AnyMapVisitorOf dynamically creates a map visitor from any map value, entries are visited in sorted key order.
func AnyMapVisitorOf(value interface{}) (Visitor[any, any], error) {
	switch actual := value.(type) {
	case map[string]interface{}:
		return stringMapVisitor(actual), nil
	case map[string]string:
		return stringMapVisitor(actual), nil
	case map[string]int:
		return stringMapVisitor(actual), nil
	case map[string]bool:
		return stringMapVisitor(actual), nil
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Map {
		return nil, fmt.Errorf("expected map, got %T", value)
	}
	return reflectMapVisitor(val), nil
}

func stringMapVisitor[V any](aMap map[string]V) Visitor[any, any] {
	return func(f func(key any, element any) (bool, error)) error {
		keys := make([]string, 0, len(aMap))
		for k := range aMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			continueVisit, err := f(k, aMap[k])
			if err != nil {
				return err
			}
			if !continueVisit {
				break
			}
		}
		return nil
	}
}

func reflectMapVisitor(aMap reflect.Value) Visitor[any, any] {
	return func(f func(key any, element any) (bool, error)) error {
		for _, key := range SortedKeys(aMap) {
			next, err := f(key.Interface(), aMap.MapIndex(key).Interface())
			if err != nil {
				return err
			}
			if !next {
				break
			}
		}
		return nil
	}
}

// SortedKeys returns map keys ordered by value for numeric, string and bool keys, and by text form otherwise
func SortedKeys(aMap reflect.Value) []reflect.Value {
	keys := aMap.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return lessKey(keys[i], keys[j])
	})
	return keys
}

func lessKey(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if !a.IsValid() || !b.IsValid() {
		return !a.IsValid() && b.IsValid()
	}
	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.String:
			return a.String() < b.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return a.Int() < b.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return a.Uint() < b.Uint()
		case reflect.Float32, reflect.Float64:
			return a.Float() < b.Float()
		case reflect.Bool:
			return !a.Bool() && b.Bool()
		}
	}
	return fmt.Sprintf("%T:%v", a.Interface(), a.Interface()) < fmt.Sprintf("%T:%v", b.Interface(), b.Interface())
}
