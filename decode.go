package datamodel

import (
	"fmt"
	"reflect"
)

// Decode builds *T from raw input using struct schema of T
func Decode[T any](engine *Engine, raw interface{}, opts ...Option) (*T, *ErrorMap, error) {
	if engine == nil {
		engine = defaultEngine
	}
	rType := reflect.TypeOf((*T)(nil)).Elem()
	schema, err := engine.Schema(rType)
	if err != nil {
		return nil, NewErrorMap(), err
	}
	instance, errs, err := engine.CoerceAndValidate(schema, raw, opts...)
	if err != nil {
		return nil, errs, err
	}
	ret, ok := instance.(*T)
	if !ok {
		return nil, errs, fmt.Errorf("expected %T, but had %T", ret, instance)
	}
	return ret, errs, nil
}
