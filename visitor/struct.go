package visitor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unsafe"

	"github.com/viant/xunsafe"
)

var structCache sync.Map

type structField struct {
	name   string
	xField *xunsafe.Field
}

// StructVisitor implements Visitor[string, interface{}] for structs using xunsafe.
type StructVisitor struct {
	value  interface{}
	ptr    unsafe.Pointer
	fields []*structField
}

// StructVisitorOf creates a StructVisitor from any struct value. Only exported
// fields are visited, keyed by json tag name when present, embedded structs are flattened.
func StructVisitorOf(value interface{}) (Visitor[string, interface{}], error) {
	valueType := reflect.TypeOf(value)
	if valueType == nil {
		return nil, fmt.Errorf("expected struct or pointer to struct, got nil")
	}
	isPtr := false
	var structType reflect.Type
	switch valueType.Kind() {
	case reflect.Ptr:
		if valueType.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("expected struct or pointer to struct, got %T", value)
		}
		isPtr = true
		structType = valueType.Elem()
	case reflect.Struct:
		structType = valueType
	default:
		return nil, fmt.Errorf("expected struct or pointer to struct, got %T", value)
	}

	if !isPtr {
		rPointer := reflect.New(structType)
		rPointer.Elem().Set(reflect.ValueOf(value))
		value = rPointer.Interface()
	} else if reflect.ValueOf(value).IsNil() {
		return nil, fmt.Errorf("expected struct or pointer to struct, got nil %T", value)
	}
	fields := fieldsOf(structType)
	visitor := &StructVisitor{
		value:  value,
		ptr:    xunsafe.AsPointer(value),
		fields: fields,
	}
	return visitor.Visit, nil
}

func fieldsOf(structType reflect.Type) []*structField {
	if cached, ok := structCache.Load(structType); ok {
		return cached.([]*structField)
	}
	actual, _ := structCache.LoadOrStore(structType, exportedFields(structType, 0))
	return actual.([]*structField)
}

func exportedFields(structType reflect.Type, offset uintptr) []*structField {
	var result []*structField
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			result = append(result, exportedFields(field.Type, offset+field.Offset)...)
			continue
		}
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ","); jsonName == "-" {
			continue
		} else if jsonName != "" {
			name = jsonName
		}
		field.Offset += offset
		result = append(result, &structField{name: name, xField: xunsafe.NewField(field)})
	}
	return result
}

// Visit iterates over struct fields, calling the provided function with each field name and value.
func (w *StructVisitor) Visit(f func(key string, element interface{}) (bool, error)) error {
	for _, field := range w.fields {
		fieldValue := field.xField.Value(w.ptr)
		continueVisit, err := f(field.name, fieldValue)
		if err != nil {
			return err
		}
		if !continueVisit {
			break
		}
	}
	return nil
}
