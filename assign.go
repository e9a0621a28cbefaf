package datamodel

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unsafe"
)

var structCompatibility sync.Map

// assign adapts coerced value to target Go type: T to *T, *T to T, element-wise slices, arrays and maps,
// named types conversions and layout compatible structs
func assign(target reflect.Type, value interface{}) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	return assignValue(target, reflect.ValueOf(value))
}

func assignValue(target reflect.Type, src reflect.Value) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Zero(target), nil
	}
	srcType := src.Type()
	if srcType == target {
		return src, nil
	}
	if src.Kind() == reflect.Interface {
		if src.IsNil() {
			return reflect.Zero(target), nil
		}
		return assignValue(target, src.Elem())
	}
	if srcType.AssignableTo(target) {
		ret := reflect.New(target).Elem()
		ret.Set(src)
		return ret, nil
	}
	switch target.Kind() {
	case reflect.Ptr:
		if src.Kind() == reflect.Ptr {
			if src.IsNil() {
				return reflect.Zero(target), nil
			}
			return assignValue(target, src.Elem())
		}
		elem, err := assignValue(target.Elem(), src)
		if err != nil {
			return reflect.Value{}, err
		}
		ret := reflect.New(target.Elem())
		ret.Elem().Set(elem)
		return ret, nil
	case reflect.Slice:
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			if src.Kind() == reflect.Slice && src.IsNil() {
				return reflect.Zero(target), nil
			}
			ret := reflect.MakeSlice(target, src.Len(), src.Len())
			for i := 0; i < src.Len(); i++ {
				item, err := assignValue(target.Elem(), src.Index(i))
				if err != nil {
					return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
				}
				ret.Index(i).Set(item)
			}
			return ret, nil
		}
	case reflect.Array:
		if (src.Kind() == reflect.Slice || src.Kind() == reflect.Array) && src.Len() == target.Len() {
			ret := reflect.New(target).Elem()
			for i := 0; i < src.Len(); i++ {
				item, err := assignValue(target.Elem(), src.Index(i))
				if err != nil {
					return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
				}
				ret.Index(i).Set(item)
			}
			return ret, nil
		}
	case reflect.Map:
		if src.Kind() == reflect.Map {
			if src.IsNil() {
				return reflect.Zero(target), nil
			}
			ret := reflect.MakeMapWithSize(target, src.Len())
			iter := src.MapRange()
			for iter.Next() {
				key, err := assignValue(target.Key(), iter.Key())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
				}
				item, err := assignValue(target.Elem(), iter.Value())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("[%v]: %w", iter.Key(), err)
				}
				ret.SetMapIndex(key, item)
			}
			return ret, nil
		}
	case reflect.Struct:
		if src.Kind() == reflect.Ptr {
			if src.IsNil() {
				return reflect.Zero(target), nil
			}
			return assignValue(target, src.Elem())
		}
		if src.Kind() == reflect.Struct && areStructTypesCompatible(srcType, target) {
			return convertStruct(target, src)
		}
	case reflect.Interface:
		if srcType.Implements(target) {
			ret := reflect.New(target).Elem()
			ret.Set(src)
			return ret, nil
		}
	}
	if src.Kind() == reflect.Ptr && !src.IsNil() {
		return assignValue(target, src.Elem())
	}
	if isConvertible(srcType, target) {
		return src.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %v to %v", srcType, target)
}

// isConvertible returns true for conversions preserving value meaning, i.e. named types over the same kind and numeric widening
func isConvertible(src, target reflect.Type) bool {
	if !src.ConvertibleTo(target) {
		return false
	}
	if src.Kind() == target.Kind() {
		return true
	}
	return isNumericKind(src.Kind()) && isNumericKind(target.Kind())
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func convertStruct(target reflect.Type, src reflect.Value) (reflect.Value, error) {
	if src.Type().ConvertibleTo(target) {
		return src.Convert(target), nil
	}
	if !src.CanAddr() {
		addressable := reflect.New(src.Type()).Elem()
		addressable.Set(src)
		src = addressable
	}
	ret := reflect.New(target).Elem()
	for i := 0; i < target.NumField(); i++ {
		destField := ret.Field(i)
		srcField := src.Field(i)
		if !target.Field(i).IsExported() {
			dest := reflect.NewAt(destField.Type(), unsafe.Pointer(destField.UnsafeAddr())).Elem()
			source := reflect.NewAt(srcField.Type(), unsafe.Pointer(srcField.UnsafeAddr())).Elem()
			value, err := assignValue(dest.Type(), source)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%v: %w", target.Field(i).Name, err)
			}
			dest.Set(value)
			continue
		}
		value, err := assignValue(destField.Type(), srcField)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%v: %w", target.Field(i).Name, err)
		}
		destField.Set(value)
	}
	return ret, nil
}

// generateStructSignature generates a signature for a struct type for quick comparison
func generateStructSignature(rType reflect.Type) string {
	var sb strings.Builder
	sb.WriteString(rType.PkgPath())
	sb.WriteRune(':')
	sb.WriteString(rType.String())
	sb.WriteRune('{')
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		sb.WriteString(field.Name)
		sb.WriteRune(':')
		sb.WriteString(field.Type.String())
		sb.WriteRune(';')
	}
	sb.WriteRune('}')
	return sb.String()
}

// areStructTypesCompatible checks if two struct types have the same field names in the same order with convertible types
func areStructTypesCompatible(srcType, destType reflect.Type) bool {
	if srcType.Kind() != reflect.Struct || destType.Kind() != reflect.Struct {
		return false
	}
	if srcType.NumField() != destType.NumField() {
		return false
	}
	key := generateStructSignature(srcType) + "->" + generateStructSignature(destType)
	if v, ok := structCompatibility.Load(key); ok {
		return v.(bool)
	}
	compatible := true
	for i := 0; i < srcType.NumField(); i++ {
		srcField := srcType.Field(i)
		destField := destType.Field(i)
		if srcField.Name != destField.Name {
			compatible = false
			break
		}
		if srcField.Type != destField.Type && !isConvertible(srcField.Type, destField.Type) {
			// If these are structs themselves, recursively check
			if srcField.Type.Kind() == reflect.Struct && destField.Type.Kind() == reflect.Struct {
				if !areStructTypesCompatible(srcField.Type, destField.Type) {
					compatible = false
					break
				}
			} else {
				compatible = false
				break
			}
		}
	}
	structCompatibility.Store(key, compatible)
	return compatible
}
