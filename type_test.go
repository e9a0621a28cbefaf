package datamodel

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_Category(t *testing.T) {
	var testCases = []struct {
		description string
		aType       *Type
		expect      CategoryKind
	}{
		{description: "int", aType: Int(), expect: CategoryPrimitive},
		{description: "date", aType: Date(), expect: CategoryPrimitive},
		{description: "uuid", aType: UUID(), expect: CategoryPrimitive},
		{description: "bytes", aType: Of(reflect.TypeOf([]byte{})), expect: CategoryPrimitive},
		{description: "named int", aType: TypeFor[Score](), expect: CategoryPrimitive},
		{description: "slice", aType: TypeFor[[]int](), expect: CategoryList},
		{description: "go set", aType: TypeFor[map[string]struct{}](), expect: CategorySet},
		{description: "map", aType: TypeFor[map[string]int](), expect: CategoryDict},
		{description: "array", aType: TypeFor[[3]int](), expect: CategoryTuple},
		{description: "pointer", aType: TypeFor[*int](), expect: CategoryOptional},
		{description: "func", aType: TypeFor[func() error](), expect: CategoryCallable},
		{description: "chan", aType: TypeFor[chan int](), expect: CategoryAwaitable},
		{description: "context", aType: TypeFor[context.Context](), expect: CategoryAwaitable},
		{description: "enumerator", aType: TypeFor[Color](), expect: CategoryEnum},
		{description: "reflect type", aType: TypeFor[reflect.Type](), expect: CategoryTypeOf},
		{description: "struct", aType: TypeFor[Address](), expect: CategoryRecord},
		{description: "struct without exported fields", aType: TypeFor[struct{ x int }](), expect: CategoryOpaque},
		{description: "interface", aType: TypeFor[interface{}](), expect: CategoryOpaque},
		{description: "union with none", aType: Union(Int(), None()), expect: CategoryOptional},
		{description: "single arm union", aType: Union(Int()), expect: CategoryPrimitive},
		{description: "union", aType: Union(Int(), String()), expect: CategoryUnion},
		{description: "frozen set", aType: FrozenSet(Int()), expect: CategoryFrozenSet},
		{description: "literal", aType: Literal("a", "b"), expect: CategoryLiteral},
		{description: "enum of members", aType: EnumOf("a", "b"), expect: CategoryEnum},
		{description: "class", aType: Class(), expect: CategoryTypeOf},
		{description: "callable", aType: Func(), expect: CategoryCallable},
		{description: "awaitable", aType: Future(), expect: CategoryAwaitable},
		{description: "any", aType: Any(), expect: CategoryOpaque},
		{description: "dynamic record", aType: RecordOf(MustSchema("Point", MustField("x", Int()))), expect: CategoryRecord},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.aType.Kind(), testCase.description)
	}
}

func TestType_CategoryComputedOnce(t *testing.T) {
	aType := List(Optional(Int()))
	first := aType.Category()
	assert.Same(t, first, aType.Category())
	assert.Equal(t, CategoryOptional, first.Inner().Kind())
}

func TestType_Variadic(t *testing.T) {
	category := Variadic(Int()).Category()
	assert.Equal(t, CategoryTuple, category.Kind)
	assert.True(t, category.Homogeneous)
	assert.False(t, Tuple(Int(), String()).Category().Homogeneous)
}

func TestUnion_Normalization(t *testing.T) {
	var testCases = []struct {
		description string
		aType       *Type
		expect      string
	}{
		{description: "nested unions flatten", aType: Union(Int(), Union(String(), Int())), expect: "Union[int, string]"},
		{description: "duplicates removed keeping first position", aType: Union(String(), Int(), String()), expect: "Union[string, int]"},
		{description: "none turns union into optional", aType: Union(Int(), String(), None()), expect: "Optional[Union[int, string]]"},
		{description: "optional arm", aType: Union(Optional(Int()), String()), expect: "Optional[Union[int, string]]"},
		{description: "optional collapses", aType: Optional(Optional(Int())), expect: "Optional[int]"},
		{description: "single arm", aType: Union(Date()), expect: "date"},
		{description: "only none", aType: Union(None()), expect: "None"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.aType.String(), testCase.description)
	}
}

func TestType_GoType(t *testing.T) {
	schema := MustSchema("Point", MustField("x", Int()))
	var testCases = []struct {
		description string
		aType       *Type
		expect      reflect.Type
	}{
		{description: "optional scalar", aType: Optional(Int()), expect: reflect.TypeOf((*int)(nil))},
		{description: "optional list", aType: Optional(List(Int())), expect: reflect.TypeOf([]int{})},
		{description: "list", aType: List(String()), expect: reflect.TypeOf([]string{})},
		{description: "set", aType: Set(String()), expect: reflect.TypeOf(map[string]struct{}{})},
		{description: "fixed tuple", aType: Tuple(Int(), String()), expect: reflect.TypeOf([]interface{}{})},
		{description: "variadic tuple", aType: Variadic(Int()), expect: reflect.TypeOf([]int{})},
		{description: "dict", aType: Dict(String(), Int()), expect: reflect.TypeOf(map[string]int{})},
		{description: "union", aType: Union(Int(), String()), expect: interfaceType},
		{description: "dynamic record", aType: RecordOf(schema), expect: recordPtrType},
		{description: "struct record", aType: TypeFor[Address](), expect: reflect.TypeOf(Address{})},
		{description: "literal", aType: Literal("a", "b"), expect: stringType},
		{description: "mixed literal", aType: Literal("a", 1), expect: interfaceType},
		{description: "enum", aType: TypeFor[Color](), expect: reflect.TypeOf(Red)},
		{description: "class", aType: Class(), expect: reflectType},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.aType.GoType(), testCase.description)
	}
}

func TestType_EnumMembers(t *testing.T) {
	assert.Equal(t, []interface{}{Red, Green}, TypeFor[Color]().EnumMembers())
	assert.Equal(t, []interface{}{"a", "b"}, EnumOf("a", "b").EnumMembers())
	assert.Nil(t, Int().EnumMembers())
}
