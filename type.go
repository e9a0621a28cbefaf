package datamodel

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/viant/datamodel/conv"
)

type typeForm int

const (
	formGo typeForm = iota
	formScalar
	formOptional
	formUnion
	formList
	formSet
	formFrozenSet
	formTuple
	formVariadic
	formDict
	formLiteral
	formEnum
	formRecord
	formTypeOf
	formFunc
	formFuture
	formAny
	formNone
)

// Type represents declared type annotation, it is immutable once built and safe to share
type Type struct {
	form     typeForm
	name     string
	rType    reflect.Type
	args     []*Type
	literals []interface{}
	enum     *enumInfo
	schema   *Schema

	categoryOnce sync.Once
	category     *Category
	goTypeOnce   sync.Once
	goType       reflect.Type
}

var (
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
	reflectType   = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	emptyStruct   = reflect.TypeOf(struct{}{})
	recordPtrType = reflect.TypeOf(&Record{})
	stringType    = reflect.TypeOf("")
	intType       = reflect.TypeOf(0)
	int64Type     = reflect.TypeOf(int64(0))
	uintType      = reflect.TypeOf(uint(0))
	float64Type   = reflect.TypeOf(0.0)
	boolType      = reflect.TypeOf(true)
	bytesType     = reflect.TypeOf([]byte{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	decimalType   = reflect.TypeOf(decimal.Decimal{})
	dateType      = reflect.TypeOf(conv.Date{})
	timeType      = reflect.TypeOf(time.Time{})
	timeOfDayType = reflect.TypeOf(conv.TimeOfDay{})
	durationType  = reflect.TypeOf(time.Duration(0))
	anyType       = &Type{form: formAny, name: "Any", rType: interfaceType}
	noneType      = &Type{form: formNone, name: "None"}
)

func scalar(name string, rType reflect.Type) *Type {
	return &Type{form: formGo, name: name, rType: rType}
}

func String() *Type    { return scalar("string", stringType) }
func Int() *Type       { return scalar("int", intType) }
func Int64() *Type     { return scalar("int64", int64Type) }
func Uint() *Type      { return scalar("uint", uintType) }
func Float() *Type     { return scalar("float", float64Type) }
func Bool() *Type      { return scalar("bool", boolType) }
func Bytes() *Type     { return scalar("bytes", bytesType) }
func UUID() *Type      { return scalar("uuid", uuidType) }
func Decimal() *Type   { return scalar("decimal", decimalType) }
func Date() *Type      { return scalar("date", dateType) }
func DateTime() *Type  { return scalar("datetime", timeType) }
func TimeOfDay() *Type { return scalar("time", timeOfDayType) }
func Duration() *Type  { return scalar("duration", durationType) }

// Any returns type accepting any value unchanged
func Any() *Type { return anyType }

// None returns nil type, used as a union arm
func None() *Type { return noneType }

// Of returns type annotation of Go type
func Of(rType reflect.Type) *Type {
	if rType == nil {
		return anyType
	}
	return &Type{form: formGo, rType: rType}
}

// TypeFor returns type annotation of T
func TypeFor[T any]() *Type {
	return Of(reflect.TypeOf((*T)(nil)).Elem())
}

// Scalar returns primitive type annotation for a custom type registered with the engine registry
func Scalar(rType reflect.Type) *Type {
	return &Type{form: formScalar, rType: rType}
}

// Optional returns optional type, Optional of Optional collapses
func Optional(inner *Type) *Type {
	if inner.form == formOptional || inner.form == formNone || inner.form == formAny {
		return inner
	}
	return &Type{form: formOptional, args: []*Type{inner}}
}

// Union returns union type: nested unions flatten, duplicated arms are removed keeping first position,
// None arm turns the union into Optional and a single arm union is that arm
func Union(arms ...*Type) *Type {
	var result []*Type
	seen := map[string]bool{}
	nullable := false
	var add func(arm *Type)
	add = func(arm *Type) {
		switch arm.form {
		case formNone:
			nullable = true
			return
		case formOptional:
			nullable = true
			add(arm.args[0])
			return
		case formUnion:
			for _, nested := range arm.args {
				add(nested)
			}
			return
		}
		key := arm.identity()
		if seen[key] {
			return
		}
		seen[key] = true
		result = append(result, arm)
	}
	for _, arm := range arms {
		if arm != nil {
			add(arm)
		}
	}
	var ret *Type
	switch len(result) {
	case 0:
		return noneType
	case 1:
		ret = result[0]
	default:
		ret = &Type{form: formUnion, args: result}
	}
	if nullable {
		return Optional(ret)
	}
	return ret
}

func List(elem *Type) *Type      { return &Type{form: formList, args: []*Type{elem}} }
func Set(elem *Type) *Type       { return &Type{form: formSet, args: []*Type{elem}} }
func FrozenSet(elem *Type) *Type { return &Type{form: formFrozenSet, args: []*Type{elem}} }

// Tuple returns fixed arity tuple
func Tuple(items ...*Type) *Type { return &Type{form: formTuple, args: items} }

// Variadic returns homogeneous variable length tuple
func Variadic(elem *Type) *Type { return &Type{form: formVariadic, args: []*Type{elem}} }

func Dict(key, value *Type) *Type { return &Type{form: formDict, args: []*Type{key, value}} }

// Literal returns type accepting only supplied constants
func Literal(values ...interface{}) *Type {
	return &Type{form: formLiteral, literals: values}
}

// EnumOf returns enum type of supplied members, members have to share one Go type
func EnumOf(members ...interface{}) *Type {
	ret := &Type{form: formEnum}
	if len(members) > 0 {
		ret.enum = newEnumInfo(reflect.TypeOf(members[0]), members)
		ret.rType = ret.enum.rType
	}
	return ret
}

// RecordOf returns record type of supplied schema
func RecordOf(schema *Schema) *Type {
	ret := &Type{form: formRecord, schema: schema}
	if schema != nil {
		ret.rType = schema.rType
	}
	return ret
}

// Class returns type whose values are reflect.Type assignable to one of allowed types, none means any
func Class(allowed ...*Type) *Type { return &Type{form: formTypeOf, args: allowed} }

// Func returns callable type
func Func() *Type { return &Type{form: formFunc, name: "Callable"} }

// Future returns awaitable type
func Future() *Type { return &Type{form: formFuture, name: "Awaitable"} }

// Category returns type classification, computed once
func (t *Type) Category() *Category {
	t.categoryOnce.Do(func() {
		t.category = t.classify()
	})
	return t.category
}

// Kind returns category kind
func (t *Type) Kind() CategoryKind {
	return t.Category().Kind
}

// Type returns underlying Go type if the annotation was built from one
func (t *Type) Type() reflect.Type {
	return t.rType
}

// Schema returns record schema for dynamic records
func (t *Type) Schema() *Schema {
	return t.schema
}

// Literals returns literal constants
func (t *Type) Literals() []interface{} {
	if t.form == formNone {
		return []interface{}{nil}
	}
	return t.literals
}

// EnumMembers returns enum members in declaration order
func (t *Type) EnumMembers() []interface{} {
	if info := t.enumInfo(); info != nil {
		return info.members
	}
	return nil
}

func (t *Type) enumInfo() *enumInfo {
	if t.enum != nil {
		return t.enum
	}
	t.Category()
	return t.enum
}

// GoType returns natural Go type of coerced values
func (t *Type) GoType() reflect.Type {
	t.goTypeOnce.Do(func() {
		t.goType = t.computeGoType()
	})
	return t.goType
}

func (t *Type) computeGoType() reflect.Type {
	category := t.Category()
	switch t.form {
	case formGo, formScalar, formEnum:
		if t.rType != nil {
			return t.rType
		}
	case formRecord:
		if t.rType != nil {
			return t.rType
		}
		return recordPtrType
	}
	switch category.Kind {
	case CategoryOptional:
		inner := category.Inner().GoType()
		if isNillable(inner) {
			return inner
		}
		return reflect.PointerTo(inner)
	case CategoryList:
		return reflect.SliceOf(category.Inner().GoType())
	case CategorySet, CategoryFrozenSet:
		elem := category.Inner().GoType()
		if !elem.Comparable() {
			elem = interfaceType
		}
		return reflect.MapOf(elem, emptyStruct)
	case CategoryTuple:
		if category.Homogeneous {
			return reflect.SliceOf(category.Inner().GoType())
		}
		return reflect.TypeOf([]interface{}{})
	case CategoryDict:
		key := category.Args[0].GoType()
		if !key.Comparable() {
			key = interfaceType
		}
		return reflect.MapOf(key, category.Args[1].GoType())
	case CategoryLiteral:
		var common reflect.Type
		for _, literal := range t.Literals() {
			if literal == nil {
				return interfaceType
			}
			if common == nil {
				common = reflect.TypeOf(literal)
			} else if common != reflect.TypeOf(literal) {
				return interfaceType
			}
		}
		if common != nil {
			return common
		}
	case CategoryTypeOf:
		return reflectType
	}
	return interfaceType
}

func isNillable(rType reflect.Type) bool {
	switch rType.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// String returns annotation text, i.e. Optional[Union[Address, string]]
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.name != "" {
		return t.name
	}
	switch t.form {
	case formGo, formScalar:
		return t.rType.String()
	case formOptional:
		return "Optional[" + joinTypes(t.args) + "]"
	case formUnion:
		return "Union[" + joinTypes(t.args) + "]"
	case formList:
		return "List[" + joinTypes(t.args) + "]"
	case formSet:
		return "Set[" + joinTypes(t.args) + "]"
	case formFrozenSet:
		return "FrozenSet[" + joinTypes(t.args) + "]"
	case formTuple:
		return "Tuple[" + joinTypes(t.args) + "]"
	case formVariadic:
		return "Tuple[" + joinTypes(t.args) + ", ...]"
	case formDict:
		return "Dict[" + joinTypes(t.args) + "]"
	case formLiteral:
		values := make([]string, len(t.literals))
		for i, literal := range t.literals {
			values[i] = formatValue(literal)
		}
		return "Literal[" + strings.Join(values, ", ") + "]"
	case formEnum:
		if t.rType != nil {
			return "Enum[" + t.rType.String() + "]"
		}
		return "Enum"
	case formRecord:
		if t.schema != nil {
			return t.schema.Name
		}
		return "Record"
	case formTypeOf:
		if len(t.args) == 0 {
			return "Type"
		}
		return "Type[" + joinTypes(t.args) + "]"
	}
	return "Any"
}

func joinTypes(types []*Type) string {
	names := make([]string, len(types))
	for i, aType := range types {
		names[i] = aType.String()
	}
	return strings.Join(names, ", ")
}

// identity returns structural identity used to deduplicate union arms
func (t *Type) identity() string {
	switch t.form {
	case formGo, formScalar:
		return "go:" + t.rType.PkgPath() + "/" + t.rType.String()
	case formEnum:
		if t.rType != nil {
			return "enum:" + t.rType.PkgPath() + "/" + t.rType.String()
		}
	case formRecord:
		if t.schema != nil {
			return "record:" + t.schema.identity()
		}
	}
	if len(t.args) == 0 {
		return t.String()
	}
	ids := make([]string, len(t.args))
	for i, arg := range t.args {
		ids[i] = arg.identity()
	}
	return t.String() + "{" + strings.Join(ids, ",") + "}"
}
