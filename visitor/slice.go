package visitor

import (
	"fmt"
	"reflect"
)

// AnySliceVisitorOf returns visitor over any slice or array, common element types are visited without reflection
func AnySliceVisitorOf(value interface{}) (Visitor[int, any], error) {
	switch actual := value.(type) {
	case []interface{}:
		return typedSliceVisitor(actual), nil
	case []string:
		return typedSliceVisitor(actual), nil
	case []int:
		return typedSliceVisitor(actual), nil
	case []int64:
		return typedSliceVisitor(actual), nil
	case []uint64:
		return typedSliceVisitor(actual), nil
	case []float64:
		return typedSliceVisitor(actual), nil
	case []float32:
		return typedSliceVisitor(actual), nil
	case []bool:
		return typedSliceVisitor(actual), nil
	case []byte:
		return typedSliceVisitor(actual), nil
	}
	rValue := reflect.ValueOf(value)
	if rValue.Kind() != reflect.Slice && rValue.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice or array, got %T", value)
	}
	return reflectSliceVisitor(rValue), nil
}

// Items returns slice or array elements
func Items(value interface{}) ([]interface{}, error) {
	if items, ok := value.([]interface{}); ok {
		return items, nil
	}
	visit, err := AnySliceVisitorOf(value)
	if err != nil {
		return nil, err
	}
	var result []interface{}
	err = visit(func(_ int, item interface{}) (bool, error) {
		result = append(result, item)
		return true, nil
	})
	if result == nil {
		result = []interface{}{}
	}
	return result, err
}

func typedSliceVisitor[E any](slice []E) Visitor[int, any] {
	return func(f func(key int, element any) (bool, error)) error {
		for i, item := range slice {
			next, err := f(i, item)
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

func reflectSliceVisitor(rValue reflect.Value) Visitor[int, any] {
	return func(f func(key int, element any) (bool, error)) error {
		for i := 0; i < rValue.Len(); i++ {
			next, err := f(i, rValue.Index(i).Interface())
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
