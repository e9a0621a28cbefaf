package datamodel

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"github.com/viant/datamodel/conv"
)

const maxFactoryDepth = 8

type (
	// session holds per call state, it is not shared between goroutines
	session struct {
		engine       *Engine
		opts         Options
		convOpts     *conv.Options
		factoryDepth int
	}

	// outcome represents coerced value with the type that produced it,
	// for unions and optionals resolved is the selected arm
	outcome struct {
		value    interface{}
		resolved *Type
	}
)

// coerceField converts raw value into field type, field Parser or Encoder replaces type dispatch
func (s *session) coerceField(field *Field, raw interface{}) (outcome, error) {
	if field.Parser != nil || field.Encoder != nil {
		return s.override(field, raw)
	}
	if isNil(raw) {
		return outcome{resolved: field.Type}, nil
	}
	return s.coerce(field.Type, raw)
}

func (s *session) override(field *Field, raw interface{}) (outcome, error) {
	fn := field.Parser
	if fn == nil {
		fn = Parser(field.Encoder)
	}
	value, err := fn(raw)
	if err != nil {
		var typed *ConversionError
		if errors.As(err, &typed) {
			return outcome{}, typed
		}
		return outcome{}, &ConversionError{Value: raw, Expected: field.Type.String(), Err: err}
	}
	if !conforms(field.Type, value) {
		return outcome{}, &TypeMismatchError{Value: value, Expected: field.Type.String()}
	}
	return outcome{value: value, resolved: field.Type}, nil
}

// coerce dispatches raw value by declared type category
func (s *session) coerce(aType *Type, raw interface{}) (outcome, error) {
	category := aType.Category()
	if isNil(raw) {
		return s.coerceNil(aType)
	}
	if out, ok := passthrough(aType, raw); ok {
		return out, nil
	}
	if _, isRecord := raw.(*Record); !isRecord && dereferences(category.Kind) {
		raw = deref(raw)
		if out, ok := passthrough(aType, raw); ok {
			return out, nil
		}
	}
	switch category.Kind {
	case CategoryPrimitive:
		return s.coercePrimitive(aType, raw)
	case CategoryRecord:
		return s.coerceRecord(aType, raw)
	case CategoryEnum:
		return s.coerceEnum(aType, raw)
	case CategoryLiteral:
		return s.coerceLiteral(aType, raw)
	case CategoryCallable:
		return s.coerceCallable(aType, raw)
	case CategoryAwaitable:
		return s.coerceAwaitable(aType, raw)
	case CategoryOptional:
		return s.coerceOptional(aType, raw)
	case CategoryUnion:
		return s.coerceUnion(aType, raw)
	case CategoryList, CategorySet, CategoryFrozenSet:
		return s.coerceCollection(aType, raw)
	case CategoryTuple:
		return s.coerceTuple(aType, raw)
	case CategoryDict:
		return s.coerceDict(aType, raw)
	case CategoryTypeOf:
		return s.coerceTypeOf(aType, raw)
	case CategoryOpaque:
		return s.coerceOpaque(aType, raw)
	}
	return outcome{}, fmt.Errorf("unsupported category: %v", category.Kind)
}

// dereferences returns true for categories consuming pointed value
func dereferences(kind CategoryKind) bool {
	switch kind {
	case CategoryCallable, CategoryAwaitable, CategoryTypeOf, CategoryOpaque, CategoryOptional, CategoryUnion:
		return false
	}
	return true
}

// passthrough returns value of exact natural type unchanged, enum and literal values still need membership check
func passthrough(aType *Type, raw interface{}) (outcome, bool) {
	if reflect.TypeOf(raw) != aType.GoType() {
		return outcome{}, false
	}
	category := aType.Category()
	switch category.Kind {
	case CategoryEnum, CategoryLiteral, CategoryOpaque:
		return outcome{}, false
	case CategoryRecord:
		if record, ok := raw.(*Record); ok && record.schema != aType.schema {
			return outcome{}, false
		}
	case CategoryTuple:
		if !category.Homogeneous && aType.GoType().Kind() != reflect.Array {
			return outcome{}, false
		}
	}
	return outcome{value: raw, resolved: aType}, true
}

func (s *session) coerceNil(aType *Type) (outcome, error) {
	switch aType.Kind() {
	case CategoryOptional, CategoryOpaque:
		return outcome{resolved: aType}, nil
	case CategoryLiteral:
		for _, literal := range aType.Literals() {
			if literal == nil {
				return outcome{resolved: aType}, nil
			}
		}
		return outcome{}, &ConstraintViolation{Constraint: "literal", Allowed: aType.Literals()}
	}
	return outcome{}, &ConversionError{Expected: aType.String(), Reason: "value was nil"}
}

func (s *session) coercePrimitive(aType *Type, raw interface{}) (outcome, error) {
	target := aType.GoType()
	if rValue := reflect.ValueOf(raw); rValue.Kind() == reflect.Func {
		return s.invokeFactory(aType, rValue)
	}
	converter, ok := s.opts.Registry.Lookup(target)
	if !ok {
		if value, err := assign(target, raw); err == nil {
			return outcome{value: value.Interface(), resolved: aType}, nil
		}
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Reason: "no converter registered"}
	}
	value, err := converter.Func(raw, s.convOpts)
	if err != nil {
		return outcome{}, newConversionError(raw, aType, err)
	}
	return outcome{value: value, resolved: aType}, nil
}

// invokeFactory calls zero argument function and coerces its result
func (s *session) invokeFactory(aType *Type, fn reflect.Value) (outcome, error) {
	fnType := fn.Type()
	if fnType.NumIn() != 0 || fnType.NumOut() == 0 {
		return outcome{}, &ConversionError{Value: fn.Interface(), Expected: aType.String(), Reason: "expected zero argument factory"}
	}
	if s.factoryDepth >= maxFactoryDepth {
		return outcome{}, &ConversionError{Value: fn.Interface(), Expected: aType.String(), Reason: "factory nesting too deep"}
	}
	s.factoryDepth++
	defer func() { s.factoryDepth-- }()
	results := fn.Call(nil)
	if len(results) == 2 && results[1].Type().Implements(errorType) && !results[1].IsNil() {
		return outcome{}, &ConversionError{Value: fn.Interface(), Expected: aType.String(), Err: results[1].Interface().(error)}
	}
	return s.coerce(aType, results[0].Interface())
}

func (s *session) coerceEnum(aType *Type, raw interface{}) (outcome, error) {
	info := aType.enumInfo()
	if info == nil || len(info.members) == 0 {
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Reason: "enum has no members"}
	}
	for _, member := range info.members {
		if safeEqual(member, raw) {
			return outcome{value: member, resolved: aType}, nil
		}
	}
	base := baseValue(raw)
	if base != nil && info.bases[0] != nil && reflect.TypeOf(base) != reflect.TypeOf(info.bases[0]) {
		if converted, err := s.opts.Registry.Convert(reflect.TypeOf(info.bases[0]), raw); err == nil {
			base = converted
		}
	}
	for i, candidate := range info.bases {
		if safeEqual(candidate, base) {
			return outcome{value: info.members[i], resolved: aType}, nil
		}
	}
	return outcome{}, &ConstraintViolation{Value: raw, Constraint: "enum", Allowed: info.members}
}

func (s *session) coerceLiteral(aType *Type, raw interface{}) (outcome, error) {
	literals := aType.Literals()
	for _, literal := range literals {
		if literalEqual(literal, raw) {
			return outcome{value: literal, resolved: aType}, nil
		}
	}
	return outcome{}, &ConstraintViolation{Value: raw, Constraint: "literal", Allowed: literals}
}

func literalEqual(literal, value interface{}) bool {
	if literal == nil || value == nil {
		return literal == nil && value == nil
	}
	if safeEqual(literal, value) {
		return true
	}
	if _, ok := literal.(bool); ok {
		return false
	}
	if _, ok := value.(bool); ok {
		return false
	}
	if reflect.TypeOf(literal).Kind() == reflect.String && reflect.TypeOf(value).Kind() == reflect.String {
		return baseValue(literal) == baseValue(value)
	}
	left, ok := numberOf(literal)
	if !ok {
		return false
	}
	right, ok := numberOf(value)
	if !ok {
		return false
	}
	return left.Equal(right)
}

func (s *session) coerceCallable(aType *Type, raw interface{}) (outcome, error) {
	rType := reflect.TypeOf(raw)
	if rType.Kind() != reflect.Func {
		return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
	}
	if target := aType.Type(); target != nil && !rType.AssignableTo(target) {
		return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
	}
	return outcome{value: raw, resolved: aType}, nil
}

func (s *session) coerceAwaitable(aType *Type, raw interface{}) (outcome, error) {
	rType := reflect.TypeOf(raw)
	if rType.Kind() != reflect.Chan && !rType.Implements(awaitableType) {
		return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
	}
	if target := aType.Type(); target != nil && !rType.AssignableTo(target) {
		return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
	}
	return outcome{value: raw, resolved: aType}, nil
}

func (s *session) coerceOptional(aType *Type, raw interface{}) (outcome, error) {
	inner := aType.Category().Inner()
	out, err := s.coerce(inner, raw)
	if err != nil {
		return outcome{}, err
	}
	target := aType.GoType()
	if out.value != nil && reflect.TypeOf(out.value) != target && target.Kind() != reflect.Interface {
		value, err := assign(target, out.value)
		if err != nil {
			return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Err: err}
		}
		out.value = value.Interface()
	}
	return out, nil
}

func (s *session) coerceTypeOf(aType *Type, raw interface{}) (outcome, error) {
	rType, ok := raw.(reflect.Type)
	if !ok {
		return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
	}
	allowed := aType.Category().Args
	if len(allowed) == 0 {
		return outcome{value: rType, resolved: aType}, nil
	}
	for _, candidate := range allowed {
		target := candidate.GoType()
		if rType.AssignableTo(target) || (target.Kind() == reflect.Interface && rType.Implements(target)) {
			return outcome{value: rType, resolved: aType}, nil
		}
	}
	return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
}

func (s *session) coerceOpaque(aType *Type, raw interface{}) (outcome, error) {
	target := aType.GoType()
	if target.Kind() == reflect.Interface {
		if reflect.TypeOf(raw).Implements(target) {
			return outcome{value: raw, resolved: aType}, nil
		}
		return outcome{}, &TypeMismatchError{Value: raw, Expected: aType.String()}
	}
	value, err := assign(target, raw)
	if err != nil {
		return outcome{}, &ConversionError{Value: raw, Expected: aType.String(), Err: err}
	}
	return outcome{value: value.Interface(), resolved: aType}, nil
}

// conforms returns true if value runtime type matches declared type
func conforms(aType *Type, value interface{}) bool {
	if value == nil {
		return true
	}
	category := aType.Category()
	switch category.Kind {
	case CategoryOptional:
		if reflect.TypeOf(value) == aType.GoType() {
			return true
		}
		return conforms(category.Inner(), value)
	case CategoryUnion:
		for _, arm := range category.Args {
			if conforms(arm, value) {
				return true
			}
		}
		return false
	}
	target := aType.GoType()
	rType := reflect.TypeOf(value)
	if target.Kind() == reflect.Interface {
		return rType.Implements(target)
	}
	return rType.AssignableTo(target) || (rType.Kind() == reflect.Ptr && rType.Elem().AssignableTo(target))
}

// newConversionError wraps converter failure with the declared type
func newConversionError(raw interface{}, aType *Type, err error) *ConversionError {
	ret := &ConversionError{Value: raw, Expected: aType.String(), Err: err}
	var convErr *conv.Error
	if errors.As(err, &convErr) {
		ret.Reason = convErr.Reason
		ret.Err = convErr.Err
	}
	return ret
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rValue.IsNil()
	}
	return false
}

func deref(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	rValue := reflect.ValueOf(value)
	for rValue.Kind() == reflect.Ptr && !rValue.IsNil() {
		rValue = rValue.Elem()
	}
	return rValue.Interface()
}

// safeEqual compares values without panicking on non comparable types
func safeEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	aType, bType := reflect.TypeOf(a), reflect.TypeOf(b)
	if aType != bType || !aType.Comparable() {
		return false
	}
	if d, ok := a.(decimal.Decimal); ok {
		return d.Equal(b.(decimal.Decimal))
	}
	return a == b
}
