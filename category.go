package datamodel

import "github.com/viant/datamodel/conv"

// CategoryKind is a closed set of coercion strategies
type CategoryKind int

const (
	CategoryOpaque CategoryKind = iota
	CategoryPrimitive
	CategoryRecord
	CategoryEnum
	CategoryLiteral
	CategoryCallable
	CategoryAwaitable
	CategoryOptional
	CategoryUnion
	CategoryList
	CategorySet
	CategoryFrozenSet
	CategoryTuple
	CategoryDict
	CategoryTypeOf
)

var categoryNames = [...]string{
	CategoryOpaque:    "opaque",
	CategoryPrimitive: "primitive",
	CategoryRecord:    "record",
	CategoryEnum:      "enum",
	CategoryLiteral:   "literal",
	CategoryCallable:  "callable",
	CategoryAwaitable: "awaitable",
	CategoryOptional:  "optional",
	CategoryUnion:     "union",
	CategoryList:      "list",
	CategorySet:       "set",
	CategoryFrozenSet: "frozenset",
	CategoryTuple:     "tuple",
	CategoryDict:      "dict",
	CategoryTypeOf:    "typeof",
}

func (k CategoryKind) String() string {
	if int(k) < len(categoryNames) {
		return categoryNames[k]
	}
	return "unknown"
}

// IsContainer returns true for list, set, frozenset, tuple and dict
func (k CategoryKind) IsContainer() bool {
	switch k {
	case CategoryList, CategorySet, CategoryFrozenSet, CategoryTuple, CategoryDict:
		return true
	}
	return false
}

// Category represents classified type annotation
type Category struct {
	Kind CategoryKind
	// Homogeneous is set for variable length tuples
	Homogeneous bool
	// Primitive is the converter kind of primitive categories
	Primitive conv.Kind
	// Args are ordered type arguments: optional inner type, union arms, element, key and value, tuple items or TypeOf allowed types
	Args []*Type
}

// Inner returns first type argument
func (c *Category) Inner() *Type {
	if len(c.Args) == 0 {
		return nil
	}
	return c.Args[0]
}
