package datamodel

import "reflect"

type (
	// inputShape classifies raw value for union arm gating
	inputShape int

	// armAttempt represents single union arm conversion result
	armAttempt struct {
		arm *Type
		out outcome
		err error
	}
)

const (
	shapeScalar inputShape = iota
	shapeMapping
	shapeSequence
	shapeRecord
)

func (s *session) shapeOf(raw interface{}) inputShape {
	if _, ok := raw.(*Record); ok {
		return shapeRecord
	}
	rType := reflect.TypeOf(deref(raw))
	if _, primitive := s.opts.Registry.Lookup(rType); primitive {
		return shapeScalar
	}
	switch rType.Kind() {
	case reflect.Map:
		if rType.Elem() == emptyStruct {
			return shapeSequence
		}
		return shapeMapping
	case reflect.Slice, reflect.Array:
		return shapeSequence
	case reflect.Struct:
		if hasExportedFields(rType) {
			return shapeRecord
		}
	}
	return shapeScalar
}

// accepts returns true if arm is structurally compatible with input shape
func accepts(arm *Type, shape inputShape) bool {
	switch arm.Kind() {
	case CategoryRecord:
		return shape != shapeScalar
	case CategoryDict:
		return shape == shapeMapping || shape == shapeRecord
	case CategoryList, CategorySet, CategoryFrozenSet, CategoryTuple:
		return shape == shapeSequence
	case CategoryPrimitive, CategoryEnum, CategoryLiteral:
		return shape == shapeScalar
	}
	return true
}

// coerceUnion tries arms in declaration order: first an exact runtime type match,
// then conversion of structurally compatible arms, the first success wins
func (s *session) coerceUnion(aType *Type, raw interface{}) (outcome, error) {
	arms := aType.Category().Args
	rType := reflect.TypeOf(raw)
	for _, arm := range arms {
		if rType != arm.GoType() {
			continue
		}
		if attempt := s.attempt(arm, raw); attempt.err == nil {
			return attempt.out, nil
		}
	}
	shape := s.shapeOf(raw)
	failures := make([]ArmFailure, 0, len(arms))
	for _, arm := range arms {
		if !accepts(arm, shape) {
			failures = append(failures, ArmFailure{Type: arm.String(), Err: &TypeMismatchError{Value: raw, Expected: arm.String()}})
			continue
		}
		attempt := s.attempt(arm, raw)
		if attempt.err == nil {
			return attempt.out, nil
		}
		failures = append(failures, ArmFailure{Type: arm.String(), Err: attempt.err})
	}
	return outcome{}, &UnionExhausted{Value: raw, Arms: failures}
}

func (s *session) attempt(arm *Type, raw interface{}) *armAttempt {
	out, err := s.coerce(arm, raw)
	return &armAttempt{arm: arm, out: out, err: err}
}
