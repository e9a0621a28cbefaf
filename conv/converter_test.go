package conv

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Score int

type Label string

func TestRegistry_Convert(t *testing.T) {
	registry := DefaultRegistry()
	var testCases = []struct {
		description string
		target      reflect.Type
		input       interface{}
		expect      interface{}
		expectErr   bool
	}{
		{description: "string passthrough", target: stringType, input: "hello", expect: "hello"},
		{description: "int to string", target: stringType, input: 123, expect: "123"},
		{description: "float to string", target: stringType, input: 123.456, expect: "123.456"},
		{description: "bytes to string", target: stringType, input: []byte("hello"), expect: "hello"},
		{description: "bool to string", target: stringType, input: false, expect: "false"},
		{description: "uuid to string", target: stringType, input: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), expect: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{description: "struct to string", target: stringType, input: struct{}{}, expectErr: true},

		{description: "text to int", target: intType, input: "42", expect: 42},
		{description: "text with spaces to int", target: intType, input: " 42 ", expect: 42},
		{description: "integral float to int", target: intType, input: 42.0, expect: 42},
		{description: "exponent text to int", target: intType, input: "1e3", expect: 1000},
		{description: "fractional float to int", target: intType, input: 42.5, expectErr: true},
		{description: "fractional text to int", target: intType, input: "4.2", expectErr: true},
		{description: "bool to int", target: intType, input: true, expect: 1},
		{description: "int8 overflow", target: int8Type, input: 300, expectErr: true},
		{description: "int8 in range", target: int8Type, input: "-128", expect: int8(-128)},
		{description: "int32 text overflow", target: int32Type, input: "9999999999", expectErr: true},
		{description: "garbage to int", target: intType, input: "abc", expectErr: true},
		{description: "exponent text over int64", target: int64Type, input: "1e30", expectErr: true},
		{description: "2^63 float to int", target: intType, input: 9.223372036854775807e18, expectErr: true},
		{description: "float under int64", target: int64Type, input: -1e19, expectErr: true},
		{description: "infinity to int64", target: int64Type, input: math.Inf(1), expectErr: true},
		{description: "big decimal to int64", target: int64Type, input: decimal.RequireFromString("1e30"), expectErr: true},
		{description: "largest exact float to int64", target: int64Type, input: 9.223372036854774784e18, expect: int64(9223372036854774784)},

		{description: "negative to uint", target: uintType, input: -1, expectErr: true},
		{description: "negative text to uint", target: uint64Type, input: "-5", expectErr: true},
		{description: "uint8 overflow", target: uint8Type, input: 256, expectErr: true},
		{description: "text to uint16", target: uint16Type, input: "65535", expect: uint16(65535)},
		{description: "float over uint", target: uintType, input: 1e30, expectErr: true},
		{description: "2^64 float to uint64", target: uint64Type, input: 1.8446744073709552e19, expectErr: true},
		{description: "exponent text to uint64", target: uint64Type, input: "1e3", expect: uint64(1000)},
		{description: "exponent text over uint64", target: uint64Type, input: "1e30", expectErr: true},
		{description: "NaN to uint", target: uintType, input: math.NaN(), expectErr: true},

		{description: "text to float", target: float64Type, input: "3.25", expect: 3.25},
		{description: "int to float", target: float64Type, input: 3, expect: 3.0},
		{description: "text to float32", target: float32Type, input: "1.5", expect: float32(1.5)},
		{description: "decimal to float", target: float64Type, input: decimal.RequireFromString("2.5"), expect: 2.5},
		{description: "garbage to float", target: float64Type, input: "x1", expectErr: true},

		{description: "yes to bool", target: boolType, input: "yes", expect: true},
		{description: "off to bool", target: boolType, input: "OFF", expect: false},
		{description: "numeric text to bool", target: boolType, input: "2", expect: true},
		{description: "zero to bool", target: boolType, input: 0, expect: false},
		{description: "garbage to bool", target: boolType, input: "maybe", expectErr: true},

		{description: "string to bytes", target: bytesType, input: "abc", expect: []byte("abc")},

		{description: "named int", target: reflect.TypeOf(Score(0)), input: "7", expect: Score(7)},
		{description: "named string", target: reflect.TypeOf(Label("")), input: 12, expect: Label("12")},
		{description: "named passthrough", target: reflect.TypeOf(Label("")), input: Label("x"), expect: Label("x")},

		{description: "uuid text", target: uuidType, input: "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", expect: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{description: "uuid urn", target: uuidType, input: "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", expect: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{description: "invalid uuid", target: uuidType, input: "not-a-uuid", expectErr: true},

		{description: "decimal text", target: decimalType, input: "10.05", expect: decimal.RequireFromString("10.05")},
		{description: "decimal int", target: decimalType, input: 10, expect: decimal.NewFromInt(10)},
		{description: "invalid decimal", target: decimalType, input: "ten", expectErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := registry.Convert(testCase.target, testCase.input)
			if testCase.expectErr {
				require.NotNil(t, err)
				var convErr *Error
				assert.True(t, errors.As(err, &convErr))
				assert.Equal(t, testCase.target, convErr.Target)
				return
			}
			require.Nil(t, err)
			if expectDecimal, ok := testCase.expect.(decimal.Decimal); ok {
				assert.True(t, expectDecimal.Equal(actual.(decimal.Decimal)))
				return
			}
			assert.EqualValues(t, testCase.expect, actual)
			assert.Equal(t, reflect.TypeOf(testCase.expect), reflect.TypeOf(actual))
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	minimal := NewRegistry()
	_, ok := minimal.Lookup(uuidType)
	assert.False(t, ok, "uuid is an extended kind")
	converter, ok := minimal.Lookup(intType)
	require.True(t, ok)
	assert.Equal(t, KindInt, converter.Kind)

	converter, ok = minimal.Lookup(reflect.TypeOf(Score(0)))
	require.True(t, ok)
	assert.Equal(t, KindInt, converter.Kind)
	assert.Equal(t, reflect.TypeOf(Score(0)), converter.Type)

	_, ok = minimal.Lookup(reflect.TypeOf(struct{}{}))
	assert.False(t, ok)

	extended := DefaultRegistry()
	converter, ok = extended.Lookup(timeType)
	require.True(t, ok)
	assert.Equal(t, KindDateTime, converter.Kind)
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()
	registry.Register(reflect.TypeOf(Label("")), KindString, func(value interface{}, _ *Options) (interface{}, error) {
		return Label("custom"), nil
	})
	actual, err := registry.Convert(reflect.TypeOf(Label("")), 1)
	require.Nil(t, err)
	assert.Equal(t, Label("custom"), actual)
	_, err = registry.Convert(reflect.TypeOf(map[string]int{}), 1)
	assert.NotNil(t, err)
}

func TestRegistry_Bulk(t *testing.T) {
	registry := NewRegistry()
	var testCases = []struct {
		description string
		elem        reflect.Type
		input       interface{}
		expect      interface{}
		handled     bool
		expectErr   bool
	}{
		{description: "delimited ints", elem: intType, input: "[1, 2,3]", expect: []int{1, 2, 3}, handled: true},
		{description: "string slice ints", elem: intType, input: []string{"1", "2"}, expect: []int{1, 2}, handled: true},
		{description: "int64 passthrough", elem: int64Type, input: []int64{4}, expect: []int64{4}, handled: true},
		{description: "delimited floats", elem: float64Type, input: "1.5,2", expect: []float64{1.5, 2}, handled: true},
		{description: "delimited float32", elem: float32Type, input: "0.5", expect: []float32{0.5}, handled: true},
		{description: "delimited strings", elem: stringType, input: "a, b", expect: []string{"a", "b"}, handled: true},
		{description: "generic slice not handled", elem: intType, input: []interface{}{1, "2"}, handled: false},
		{description: "bad element", elem: intType, input: "1,x,3", handled: true, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			fn, ok := registry.Bulk(testCase.elem)
			require.True(t, ok)
			actual, handled, err := fn(testCase.input, registry.Options())
			assert.Equal(t, testCase.handled, handled)
			if testCase.expectErr {
				require.NotNil(t, err)
				var indexErr *IndexError
				require.True(t, errors.As(err, &indexErr))
				assert.Equal(t, 1, indexErr.Index)
				return
			}
			require.Nil(t, err)
			if handled {
				assert.Equal(t, testCase.expect, actual)
			}
		})
	}
}

func TestSplitDelimited(t *testing.T) {
	assert.Equal(t, []string{}, SplitDelimited(""))
	assert.Equal(t, []string{"1", "2"}, SplitDelimited(" [1, ,2] "))
	assert.Equal(t, []string{"a"}, SplitDelimited("a"))
}

func TestError_Message(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Convert(int8Type, 1000)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "cannot convert 1000 (int) to integer (int8)")
	assert.Contains(t, err.Error(), "out of 8-bit range")
}
