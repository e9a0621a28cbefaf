package datamodel

import (
	"errors"
	"reflect"
)

// validate checks coerced value: primary key presence, required and nullable flags under strict nulls,
// custom validator, then constraints of the resolved primitive type
func (s *session) validate(field *Field, value interface{}, resolved *Type, present bool) error {
	missing := !present || isNil(value)
	if field.PrimaryKey && !field.DBDefault && missing {
		return &RequiredFieldMissing{Field: field.Name}
	}
	if s.opts.NullPolicy == StrictNulls {
		if field.Required && missing {
			return &RequiredFieldMissing{Field: field.Name}
		}
		if present && !field.Nullable && isNil(value) {
			return &NullNotAllowed{Field: field.Name}
		}
	}
	if isNil(value) {
		return nil
	}
	if resolved == nil {
		resolved = field.Type
	}
	if field.Validator != nil {
		if err := field.Validator(field, value, resolved); err != nil {
			return validatorError(value, err)
		}
	}
	return s.checkConstraints(field, value, resolved)
}

// validatorError keeps typed errors, other failures are reported as constraint violation
func validatorError(value interface{}, err error) error {
	var (
		conversion *ConversionError
		mismatch   *TypeMismatchError
		constraint *ConstraintViolation
		required   *RequiredFieldMissing
		null       *NullNotAllowed
	)
	switch {
	case errors.As(err, &conversion), errors.As(err, &mismatch), errors.As(err, &constraint),
		errors.As(err, &required), errors.As(err, &null):
		return err
	}
	return &ConstraintViolation{Value: value, Constraint: "validator", Err: err}
}

// checkConstraints applies field constraints to primitive values, optionals and unions are unwrapped to the selected arm
func (s *session) checkConstraints(field *Field, value interface{}, resolved *Type) error {
	if field.Constraints.IsEmpty() {
		return nil
	}
	category := resolved.Category()
	switch category.Kind {
	case CategoryPrimitive:
		return field.Constraints.check(deref(value))
	case CategoryOptional:
		return s.checkConstraints(field, value, category.Inner())
	case CategoryUnion:
		rType := reflect.TypeOf(deref(value))
		for _, arm := range category.Args {
			if arm.GoType() == rType {
				return s.checkConstraints(field, value, arm)
			}
		}
	}
	return nil
}
