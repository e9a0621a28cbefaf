package datamodel

import (
	"reflect"

	"github.com/viant/datamodel/conv"
)

// Enumerator is implemented by named types with a closed set of members
type Enumerator interface {
	EnumValues() []interface{}
}

// Awaitable is implemented by deferred results, i.e. context.Context
type Awaitable interface {
	Done() <-chan struct{}
}

var (
	enumeratorType = reflect.TypeOf((*Enumerator)(nil)).Elem()
	awaitableType  = reflect.TypeOf((*Awaitable)(nil)).Elem()
	classifier     = conv.DefaultRegistry()
)

type enumInfo struct {
	rType   reflect.Type
	members []interface{}
	bases   []interface{}
}

func newEnumInfo(rType reflect.Type, members []interface{}) *enumInfo {
	ret := &enumInfo{rType: rType, members: members, bases: make([]interface{}, len(members))}
	for i, member := range members {
		ret.bases[i] = baseValue(member)
	}
	return ret
}

// baseValue returns member converted to its predeclared base type, i.e. Color("red") -> "red"
func baseValue(member interface{}) interface{} {
	if member == nil {
		return nil
	}
	value := reflect.ValueOf(member)
	if base := baseType(value.Kind()); base != nil && value.Type() != base {
		return value.Convert(base).Interface()
	}
	return member
}

func baseType(kind reflect.Kind) reflect.Type {
	switch kind {
	case reflect.String:
		return stringType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int64Type
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.TypeOf(uint64(0))
	case reflect.Float32, reflect.Float64:
		return float64Type
	case reflect.Bool:
		return boolType
	}
	return nil
}

func (t *Type) classify() *Category {
	switch t.form {
	case formOptional:
		return &Category{Kind: CategoryOptional, Args: t.args}
	case formUnion:
		return &Category{Kind: CategoryUnion, Args: t.args}
	case formList:
		return &Category{Kind: CategoryList, Args: t.args}
	case formSet:
		return &Category{Kind: CategorySet, Args: t.args}
	case formFrozenSet:
		return &Category{Kind: CategoryFrozenSet, Args: t.args}
	case formTuple:
		return &Category{Kind: CategoryTuple, Args: t.args}
	case formVariadic:
		return &Category{Kind: CategoryTuple, Homogeneous: true, Args: t.args}
	case formDict:
		return &Category{Kind: CategoryDict, Args: t.args}
	case formLiteral, formNone:
		return &Category{Kind: CategoryLiteral}
	case formEnum:
		return &Category{Kind: CategoryEnum}
	case formRecord:
		return &Category{Kind: CategoryRecord}
	case formTypeOf:
		return &Category{Kind: CategoryTypeOf, Args: t.args}
	case formFunc:
		return &Category{Kind: CategoryCallable}
	case formFuture:
		return &Category{Kind: CategoryAwaitable}
	case formAny:
		return &Category{Kind: CategoryOpaque}
	case formScalar:
		ret := &Category{Kind: CategoryPrimitive}
		if converter, ok := classifier.Lookup(t.rType); ok {
			ret.Primitive = converter.Kind
		}
		return ret
	}
	return t.classifyGoType()
}

func (t *Type) classifyGoType() *Category {
	rType := t.rType
	if rType == reflectType {
		return &Category{Kind: CategoryTypeOf}
	}
	if rType.Implements(enumeratorType) {
		if members := enumMembers(rType); len(members) > 0 {
			t.enum = newEnumInfo(rType, members)
			return &Category{Kind: CategoryEnum}
		}
	}
	if rType.Kind() == reflect.Chan || rType.Implements(awaitableType) {
		return &Category{Kind: CategoryAwaitable}
	}
	if converter, ok := classifier.Lookup(rType); ok {
		return &Category{Kind: CategoryPrimitive, Primitive: converter.Kind}
	}
	switch rType.Kind() {
	case reflect.Ptr:
		return &Category{Kind: CategoryOptional, Args: []*Type{Of(rType.Elem())}}
	case reflect.Slice:
		return &Category{Kind: CategoryList, Args: []*Type{Of(rType.Elem())}}
	case reflect.Array:
		items := make([]*Type, rType.Len())
		elem := Of(rType.Elem())
		for i := range items {
			items[i] = elem
		}
		return &Category{Kind: CategoryTuple, Args: items}
	case reflect.Map:
		if rType.Elem() == emptyStruct {
			return &Category{Kind: CategorySet, Args: []*Type{Of(rType.Key())}}
		}
		return &Category{Kind: CategoryDict, Args: []*Type{Of(rType.Key()), Of(rType.Elem())}}
	case reflect.Func:
		return &Category{Kind: CategoryCallable}
	case reflect.Struct:
		if hasExportedFields(rType) {
			return &Category{Kind: CategoryRecord}
		}
	}
	return &Category{Kind: CategoryOpaque}
}

func enumMembers(rType reflect.Type) []interface{} {
	defer func() { _ = recover() }()
	zero := reflect.Zero(rType).Interface()
	if enumerator, ok := zero.(Enumerator); ok {
		return enumerator.EnumValues()
	}
	return nil
}

func hasExportedFields(rType reflect.Type) bool {
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if field.IsExported() {
			return true
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct && hasExportedFields(field.Type) {
			return true
		}
	}
	return false
}
